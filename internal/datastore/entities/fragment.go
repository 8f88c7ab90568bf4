package entities

// FragmentType is the discriminator stored in fragments.type.
type FragmentType string

const (
	FragmentTypeNucleicAcid FragmentType = "cbass_nucleic_acid_fragment"
	FragmentTypeAssay       FragmentType = "cbass_assay_fragment"
)

// Fragment is one concrete fragment variant: *CBASSNucleicAcidFragment or
// *CBASSAssayFragment.
type Fragment interface {
	Common() *FragmentBase
	FragmentType() FragmentType
	isFragment()
}

// FragmentBase holds the columns shared by every fragment variant.
type FragmentBase struct {
	ID                 uint         `gorm:"primaryKey"`
	Type               FragmentType `gorm:"size:50;not null;index"`
	ColonyID           uint         `gorm:"not null;index"`
	Label              string       `gorm:"size:200;not null;uniqueIndex"`
	TokenLabel         string       `gorm:"size:200;not null"`
	StorageChemical    *string      `gorm:"size:100"`
	StorageTemperature *string      `gorm:"size:20"`
	StorageContainer   *string      `gorm:"size:100"`
	Comments           *string      `gorm:"size:1000"`

	Colony *Colony `gorm:"foreignKey:ColonyID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (FragmentBase) TableName() string {
	return "fragments"
}

// CBASSNucleicAcidFragment is a fragment kept for sequencing only.
type CBASSNucleicAcidFragment struct {
	FragmentID uint `gorm:"primaryKey;autoIncrement:false"`

	Fragment *FragmentBase `gorm:"foreignKey:FragmentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (CBASSNucleicAcidFragment) TableName() string {
	return "cbass_nucleic_acid_fragments"
}

func (f *CBASSNucleicAcidFragment) Common() *FragmentBase      { return f.Fragment }
func (f *CBASSNucleicAcidFragment) FragmentType() FragmentType { return FragmentTypeNucleicAcid }
func (f *CBASSNucleicAcidFragment) isFragment()                {}

// CBASSAssayFragment is a fragment exposed to one heat stress profile.
// Fv/Fm time points and the relative sampling time are minutes relative to
// the assay start.
type CBASSAssayFragment struct {
	FragmentID           uint `gorm:"primaryKey;autoIncrement:false"`
	HeatStressProfileID  uint `gorm:"not null;index"`
	FvFmOneValue         *float64
	FvFmOneTimePoint     *int
	FvFmTwoValue         *float64
	FvFmTwoTimePoint     *int
	RelativeSamplingTime int   `gorm:"not null"`
	CBASSFragmentPhotoID *uint `gorm:"column:cbass_fragment_photo_id;index"`
	RelativeZooxLoss     *float64
	ZooxLossMethod       *string `gorm:"size:30"`

	Fragment          *FragmentBase       `gorm:"foreignKey:FragmentID;constraint:OnDelete:CASCADE"`
	HeatStressProfile *HeatStressProfile  `gorm:"foreignKey:HeatStressProfileID;constraint:OnDelete:CASCADE"`
	Photo             *CBASSFragmentPhoto `gorm:"foreignKey:CBASSFragmentPhotoID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (CBASSAssayFragment) TableName() string {
	return "cbass_assay_fragments"
}

func (f *CBASSAssayFragment) Common() *FragmentBase      { return f.Fragment }
func (f *CBASSAssayFragment) FragmentType() FragmentType { return FragmentTypeAssay }
func (f *CBASSAssayFragment) isFragment()                {}

// CBASSFragmentPhoto is a photo that may show several assay fragments at once.
type CBASSFragmentPhoto struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:200;not null;uniqueIndex"`
	URL  string `gorm:"column:url;size:500;not null;uniqueIndex"`
}

// TableName returns the table name for GORM.
func (CBASSFragmentPhoto) TableName() string {
	return "cbass_fragment_photos"
}
