package services

import (
	"math"

	"github.com/gfq-app/gfq/internal/models"
)

// Totals : décomposition du montant d'une facture.
type Totals struct {
	SubTotal       float64 `json:"subTotal"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// ComputeTotals calcule les montants d'une facture à partir de ses articles.
// La TVA et la remise sont toutes deux assises sur le sous-total AVANT
// remise :
//
//	total = sousTotal + sousTotal*tva/100 - sousTotal*remise/100
//
// Aucun arrondi monétaire n'est appliqué ici ; le formatage d'affichage est
// l'affaire des consommateurs. La fonction est pure et n'échoue jamais : une
// valeur NaN ou infinie est traitée comme 0.
func ComputeTotals(items []models.LineItem, taxRatePercent, discountRatePercent float64) Totals {
	var sub float64
	for _, it := range items {
		sub += finite(it.Quantity) * finite(it.UnitPrice)
	}
	tax := sub * finite(taxRatePercent) / 100
	discount := sub * finite(discountRatePercent) / 100
	return Totals{
		SubTotal:       sub,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          sub + tax - discount,
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
