package entities

import "time"

// Dive is a timed field excursion at one site, carried out by one or more divers.
type Dive struct {
	ID               uint      `gorm:"primaryKey"`
	SiteID           uint      `gorm:"not null;index"`
	TimeIn           time.Time `gorm:"not null"`
	TimeOut          time.Time `gorm:"not null"`
	MaxDepth         *float64
	Purpose          *string `gorm:"size:200"`
	Comments         *string `gorm:"size:500"`
	WaterTemperature *float64
	Label            string `gorm:"size:200;not null;uniqueIndex"`

	Site   *Site  `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	Divers []User `gorm:"many2many:dive_users;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Dive) TableName() string {
	return "dives"
}

// DiveTablePhoto is a photographed dive log sheet.
type DiveTablePhoto struct {
	ID     uint   `gorm:"primaryKey"`
	DiveID uint   `gorm:"not null;index"`
	Name   string `gorm:"size:200;not null;uniqueIndex"`
	URL    string `gorm:"column:url;size:500;not null;uniqueIndex"`

	Dive *Dive `gorm:"foreignKey:DiveID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (DiveTablePhoto) TableName() string {
	return "dive_table_photos"
}
