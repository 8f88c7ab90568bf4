package entities

import "time"

// Region is an optional grouping of sites, e.g. "Red Sea".
type Region struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null;uniqueIndex"`
	Abbreviation string `gorm:"size:3;not null"`
}

// TableName returns the table name for GORM.
func (Region) TableName() string {
	return "regions"
}

// Site is a geographic sampling location. TimeZone is a fixed UTC offset
// such as "+03:00" and is applied to every local timestamp recorded there.
type Site struct {
	ID                  uint    `gorm:"primaryKey"`
	RegionID            *uint   `gorm:"index"`
	Latitude            float64 `gorm:"not null"`
	Longitude           float64 `gorm:"not null"`
	Name                string  `gorm:"size:200;not null;uniqueIndex"`
	NameAbbreviation    string  `gorm:"size:10;not null;uniqueIndex"`
	TimeZone            string  `gorm:"size:6;not null"`
	Country             string  `gorm:"size:100;not null"`
	CountryAbbreviation *string `gorm:"size:2"`
	SubRegion           *string `gorm:"size:100"`

	Region *Region `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Site) TableName() string {
	return "sites"
}

// EnvironmentRecord is a timestamped environmental snapshot of one site.
// All measurements are optional.
type EnvironmentRecord struct {
	ID                                 uint      `gorm:"primaryKey"`
	SiteID                             uint      `gorm:"not null;index"`
	RecordTimestamp                    time.Time `gorm:"not null"`
	EnvBroadScale                      string    `gorm:"size:200;not null"`
	EnvLocalScale                      string    `gorm:"size:200;not null"`
	EnvMedium                          string    `gorm:"size:200;not null"`
	Turbidity                          *float64
	SeaSurfaceTemperature              *float64
	SeaSurfaceTemperatureStdev         *float64
	ChlorophyllA                       *float64  `gorm:"column:chlorophyll_a"`
	Salinity                           *float64
	PH                                 *float64  `gorm:"column:ph"`
	DissolvedOxygen                    *float64
	MaximumMonthlyMean                 *float64
	ThermalStressAnomalyFrequencyStdev *float64
	CoralCover                         *float64
	Label                              string    `gorm:"size:200;not null;uniqueIndex"`

	Site *Site `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (EnvironmentRecord) TableName() string {
	return "environment_records"
}
