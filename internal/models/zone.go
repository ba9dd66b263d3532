package models

// Zone (quartier) : regroupement géographique des structures facturées.
// Le nom est unique (insensible à la casse) dans toute l'application ;
// les structures s'y rattachent par ce nom, pas par l'id.
type Zone struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;index" json:"name"`
}

// DefaultZoneNames est la liste de quartiers créée au premier démarrage
// quand la collection est vide.
var DefaultZoneNames = []string{
	"AKWA",
	"BONANJO",
	"BONAPRISO",
	"BONAMOUSSADI",
	"BONABERI",
	"BALI",
	"NDOKOTTI",
	"DEIDO",
}
