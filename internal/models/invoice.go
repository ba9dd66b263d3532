package models

// Statuts de facture. La transition vers "paid" est à sens unique :
// le coeur ne repasse jamais une facture payée en impayée.
const (
	StatusUnpaid  = "unpaid"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// DefaultTaxRatePercent est le taux de TVA proposé par défaut à la création.
const DefaultTaxRatePercent = 3.0

// ValidStatus reports whether s is one of the three invoice statuses.
func ValidStatus(s string) bool {
	return s == StatusUnpaid || s == StatusPaid || s == StatusOverdue
}

// LineItem (article) : une ligne facturable. Les articles appartiennent
// exclusivement à leur facture et sont remplacés en bloc à chaque
// enregistrement, d'où le stockage en colonne JSON plutôt qu'en table fille.
type LineItem struct {
	Designation string  `json:"designation"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type LineItems []LineItem

// Invoice (facture) émise à une structure.
// TotalAmount est un instantané calculé par services.ComputeTotals au moment
// de l'enregistrement ; il n'est jamais recalculé à la lecture et jamais
// accepté tel quel d'un client.
type Invoice struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	OrganizationID      uint      `gorm:"not null;index" json:"organizationId"`
	Number              string    `gorm:"not null" json:"number"`
	IssueDate           string    `json:"issueDate"` // YYYY-MM-DD
	DueDate             string    `json:"dueDate"`   // YYYY-MM-DD
	Status              string    `gorm:"not null;default:'unpaid'" json:"status"`
	Description         string    `json:"description"`
	Notes               string    `json:"notes"`
	TaxRatePercent      float64   `json:"taxRatePercent"`
	DiscountRatePercent float64   `json:"discountRatePercent"`
	LineItems           LineItems `gorm:"serializer:json" json:"lineItems"`
	TotalAmount         float64   `json:"totalAmount"`
}
