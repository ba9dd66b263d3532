package models

// Organization (structure) : entité facturée, rattachée à une zone.
// ZoneName est une clé étrangère dénormalisée : on stocke le nom de la
// zone, pas son id. Un renommage de zone doit donc réécrire ce champ sur
// toutes les structures concernées (voir services.IntegrityGuard).
type Organization struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null;index" json:"name"`
	ZoneName string `gorm:"not null;index" json:"zoneName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}
