package entities

import "time"

// AssayType is the discriminator stored in assays.type.
type AssayType string

const (
	AssayTypeCBASS         AssayType = "cbass_assay"
	AssayTypeCalcification AssayType = "calcification_assay"
)

// Assay is one concrete assay variant. The set of implementations is closed:
// *CBASSAssay and *CalcificationAssay.
type Assay interface {
	// Common returns the shared base row.
	Common() *AssayBase
	AssayType() AssayType
	isAssay()
}

// AssayBase holds the columns shared by every assay variant.
type AssayBase struct {
	ID                  uint      `gorm:"primaryKey"`
	Type                AssayType `gorm:"size:50;not null;index"`
	EnvironmentRecordID uint      `gorm:"not null;index"`
	CampaignID          uint      `gorm:"not null;index"`
	SiteID              uint      `gorm:"not null;index"`
	Label               string    `gorm:"size:200;not null;uniqueIndex"`

	EnvironmentRecord *EnvironmentRecord `gorm:"foreignKey:EnvironmentRecordID;constraint:OnDelete:CASCADE"`
	Campaign          *Campaign          `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
	Site              *Site              `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	Scientists        []User             `gorm:"many2many:assay_users;joinForeignKey:AssayID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (AssayBase) TableName() string {
	return "assays"
}

// CBASSAssay is a Coral Bleaching Automated Stress System run.
type CBASSAssay struct {
	AssayID        uint      `gorm:"primaryKey;autoIncrement:false"`
	StartTime      time.Time `gorm:"not null"`
	StopTime       time.Time `gorm:"not null"`
	BaselineTemp   float64   `gorm:"not null"`
	FlowRate       *float64
	LightLevel     *float64
	TankVolume     *int
	SeawaterSource *string `gorm:"size:50"`

	Assay *AssayBase `gorm:"foreignKey:AssayID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (CBASSAssay) TableName() string {
	return "cbass_assays"
}

func (a *CBASSAssay) Common() *AssayBase   { return a.Assay }
func (a *CBASSAssay) AssayType() AssayType { return AssayTypeCBASS }
func (a *CBASSAssay) isAssay()             {}

// CalcificationAssay has no columns of its own yet.
type CalcificationAssay struct {
	AssayID uint `gorm:"primaryKey;autoIncrement:false"`

	Assay *AssayBase `gorm:"foreignKey:AssayID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (CalcificationAssay) TableName() string {
	return "calcification_assays"
}

func (a *CalcificationAssay) Common() *AssayBase   { return a.Assay }
func (a *CalcificationAssay) AssayType() AssayType { return AssayTypeCalcification }
func (a *CalcificationAssay) isAssay()             {}

// HeatStressProfile is one thermal challenge condition within a CBASS assay.
// (CBASSAssayID, RelativeChallengeTemperature) is unique.
type HeatStressProfile struct {
	ID                           uint    `gorm:"primaryKey"`
	CBASSAssayID                 uint    `gorm:"column:cbass_assay_id;not null;uniqueIndex:idx_hsp_assay_temperature"`
	RelativeChallengeTemperature float64 `gorm:"not null;uniqueIndex:idx_hsp_assay_temperature"`

	CBASSAssay *CBASSAssay `gorm:"foreignKey:CBASSAssayID;references:AssayID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (HeatStressProfile) TableName() string {
	return "heat_stress_profiles"
}
