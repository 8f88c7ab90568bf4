package entities

// SequencingType is the discriminator stored in sequencing_efforts.type.
type SequencingType string

const (
	SequencingTypeBarcode     SequencingType = "sequencing_effort_barcode"
	SequencingTypeMetagenomic SequencingType = "sequencing_effort_metagenomic"
	SequencingTypeRNASeq      SequencingType = "sequencing_effort_rnaseq"
)

// Barcode is the marker gene of a barcode sequencing effort.
type Barcode string

const (
	Barcode16S  Barcode = "16S"
	Barcode18S  Barcode = "18S"
	BarcodeITS2 Barcode = "ITS2"
)

// Valid reports whether b is one of the known markers.
func (b Barcode) Valid() bool {
	switch b {
	case Barcode16S, Barcode18S, BarcodeITS2:
		return true
	}
	return false
}

// NCBIBioSample is shared by every sequencing effort derived from one
// fragment row. The accession is assigned later by NCBI submission.
type NCBIBioSample struct {
	ID        uint    `gorm:"primaryKey"`
	Accession *string `gorm:"size:50"`
}

// TableName returns the table name for GORM.
func (NCBIBioSample) TableName() string {
	return "ncbi_biosamples"
}

// SequencingEffort is one concrete sequencing variant: *SequencingEffortBarcode,
// *SequencingEffortMetagenomic or *SequencingEffortRNASeq.
type SequencingEffort interface {
	Common() *SequencingEffortBase
	SequencingType() SequencingType
	isSequencingEffort()
}

// SequencingEffortBase holds the columns shared by every sequencing variant.
type SequencingEffortBase struct {
	ID              uint           `gorm:"primaryKey"`
	Type            SequencingType `gorm:"size:50;not null;index"`
	FragmentID      uint           `gorm:"not null;index"`
	NCBIBioSampleID *uint          `gorm:"column:ncbi_biosample_id;index"`

	Fragment      *FragmentBase  `gorm:"foreignKey:FragmentID;constraint:OnDelete:CASCADE"`
	NCBIBioSample *NCBIBioSample `gorm:"foreignKey:NCBIBioSampleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (SequencingEffortBase) TableName() string {
	return "sequencing_efforts"
}

// SequencingEffortBarcode is amplicon sequencing of one marker gene.
type SequencingEffortBarcode struct {
	SequencingEffortID uint    `gorm:"primaryKey;autoIncrement:false"`
	Barcode            Barcode `gorm:"size:50;not null"`

	Effort *SequencingEffortBase `gorm:"foreignKey:SequencingEffortID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (SequencingEffortBarcode) TableName() string {
	return "sequencing_effort_barcodes"
}

func (s *SequencingEffortBarcode) Common() *SequencingEffortBase  { return s.Effort }
func (s *SequencingEffortBarcode) SequencingType() SequencingType { return SequencingTypeBarcode }
func (s *SequencingEffortBarcode) isSequencingEffort()            {}

// SequencingEffortMetagenomic is shotgun metagenome sequencing.
type SequencingEffortMetagenomic struct {
	SequencingEffortID uint `gorm:"primaryKey;autoIncrement:false"`

	Effort *SequencingEffortBase `gorm:"foreignKey:SequencingEffortID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (SequencingEffortMetagenomic) TableName() string {
	return "sequencing_effort_metagenomics"
}

func (s *SequencingEffortMetagenomic) Common() *SequencingEffortBase  { return s.Effort }
func (s *SequencingEffortMetagenomic) SequencingType() SequencingType { return SequencingTypeMetagenomic }
func (s *SequencingEffortMetagenomic) isSequencingEffort()            {}

// SequencingEffortRNASeq is transcriptome sequencing.
type SequencingEffortRNASeq struct {
	SequencingEffortID uint `gorm:"primaryKey;autoIncrement:false"`

	Effort *SequencingEffortBase `gorm:"foreignKey:SequencingEffortID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (SequencingEffortRNASeq) TableName() string {
	return "sequencing_effort_rnaseqs"
}

func (s *SequencingEffortRNASeq) Common() *SequencingEffortBase  { return s.Effort }
func (s *SequencingEffortRNASeq) SequencingType() SequencingType { return SequencingTypeRNASeq }
func (s *SequencingEffortRNASeq) isSequencingEffort()            {}
