package entities

import "time"

// CoralSpecies is a taxonomy record keyed by binomial name and NCBI taxonomy ID.
type CoralSpecies struct {
	ID              uint   `gorm:"primaryKey"`
	Phylum          string `gorm:"size:100;not null"`
	Class           string `gorm:"size:100;not null"`
	Order           string `gorm:"size:100;not null"`
	Family          string `gorm:"size:100;not null"`
	Genus           string `gorm:"size:100;not null"`
	SpeciesMonomial string `gorm:"size:100;not null"`
	SpeciesBinomial string `gorm:"size:200;not null;uniqueIndex"`
	NCBITaxID       int    `gorm:"column:ncbi_tax_id;not null;uniqueIndex"`
	Abbreviation    string `gorm:"size:20;not null;uniqueIndex"`
}

// TableName returns the table name for GORM.
func (CoralSpecies) TableName() string {
	return "coral_species"
}

// Colony is one sampled coral individual. It is collected on a dive and
// assigned to one assay; its site is the assay's site.
type Colony struct {
	ID             uint      `gorm:"primaryKey"`
	CoralSpeciesID uint      `gorm:"not null;index"`
	DiveID         uint      `gorm:"not null;index"`
	SiteID         uint      `gorm:"not null;index"`
	AssayID        uint      `gorm:"not null;index"`
	TimeCollected  time.Time `gorm:"not null"`
	DepthCollected float64   `gorm:"not null"`
	Label          string    `gorm:"size:200;not null;uniqueIndex"`

	CoralSpecies *CoralSpecies `gorm:"foreignKey:CoralSpeciesID;constraint:OnDelete:CASCADE"`
	Dive         *Dive         `gorm:"foreignKey:DiveID;constraint:OnDelete:CASCADE"`
	Site         *Site         `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	Assay        *AssayBase    `gorm:"foreignKey:AssayID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Colony) TableName() string {
	return "colonies"
}

// ColonyPhoto is the single photo of a colony.
type ColonyPhoto struct {
	ID       uint   `gorm:"primaryKey"`
	ColonyID uint   `gorm:"not null;uniqueIndex"`
	Name     string `gorm:"size:200;not null;uniqueIndex"`
	URL      string `gorm:"column:url;size:500;not null;uniqueIndex"`

	Colony *Colony `gorm:"foreignKey:ColonyID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (ColonyPhoto) TableName() string {
	return "colony_photos"
}
