package importer

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// SITE headers.
const (
	colSiteName         = "site name"
	colSiteAbbreviation = "site abbreviation"
	colRecordTimestamp  = "timestamp"
	colTimeZone         = "time zone"
	colCountry          = "country"
	colCountryAbbrev    = "country abbreviation"
	colLatitude         = "latitude"
	colLongitude        = "longitude"
	colRegion           = "region"
	colSubRegion        = "sub-region"
	colEnvBroadScale    = "env_broad_scale"
	colEnvLocalScale    = "env_local_scale"
	colEnvMedium        = "env_medium"
	colRecordLabel      = "record label"
	colWaterTemperature = "water temperature"
	colTurbidity        = "turbidity"
	colChlorophyllA     = "chl a"
	colSalinity         = "salinity"
	colPH               = "pH"
	colDissolvedOxygen  = "dissolved oxygen"
	colMaxMonthlyMean   = "maximum monthly mean"
	colThermalStressSD  = "thermal stress anomaly frequency stdev"
	colSeaSurfaceTempSD = "sea surface temperature stdev"
	colCoralCover       = "coral cover"
)

// importSite creates the site of a SITE row, or reuses the one an earlier
// row created, and one environment record.
func (r *run) importSite(ctx context.Context, row sheet.Row) error {
	rr := newRowReader(sheet.Site, row)
	name := rr.String(colSiteName)
	abbreviation := rr.String(colSiteAbbreviation)
	zone, loc := rr.Offset(colTimeZone)
	country := rr.String(colCountry)
	lat := rr.Float(colLatitude)
	lon := rr.Float(colLongitude)
	record := &entities.EnvironmentRecord{
		RecordTimestamp:                    rr.Timestamp(colRecordTimestamp, loc),
		EnvBroadScale:                      rr.String(colEnvBroadScale),
		EnvLocalScale:                      rr.String(colEnvLocalScale),
		EnvMedium:                          rr.String(colEnvMedium),
		SeaSurfaceTemperature:              rr.OptFloat(colWaterTemperature),
		Turbidity:                          rr.OptFloat(colTurbidity),
		ChlorophyllA:                       rr.OptFloat(colChlorophyllA),
		Salinity:                           rr.OptFloat(colSalinity),
		PH:                                 rr.OptFloat(colPH),
		DissolvedOxygen:                    rr.OptFloat(colDissolvedOxygen),
		MaximumMonthlyMean:                 rr.OptFloat(colMaxMonthlyMean),
		ThermalStressAnomalyFrequencyStdev: rr.OptFloat(colThermalStressSD),
		SeaSurfaceTemperatureStdev:         rr.OptFloat(colSeaSurfaceTempSD),
		CoralCover:                         rr.OptFloat(colCoralCover),
		Label:                              rr.String(colRecordLabel),
	}
	countryAbbreviation := rr.OptString(colCountryAbbrev)
	subRegion := rr.OptString(colSubRegion)
	regionName := rr.OptString(colRegion)
	if err := rr.Err(); err != nil {
		return err
	}
	if lat < -90 || lat > 90 {
		return &FormatError{Sheet: sheet.Site, Row: row.Number, Field: colLatitude, Value: row.Get(colLatitude), Err: ErrOutOfRange}
	}
	if lon < -180 || lon > 180 {
		return &FormatError{Sheet: sheet.Site, Row: row.Number, Field: colLongitude, Value: row.Get(colLongitude), Err: ErrOutOfRange}
	}

	declared := &entities.Site{
		Latitude:            lat,
		Longitude:           lon,
		Name:                name,
		NameAbbreviation:    abbreviation,
		TimeZone:            zone,
		Country:             country,
		CountryAbbreviation: countryAbbreviation,
		SubRegion:           subRegion,
	}
	site, seen := r.sites[abbreviation]
	if seen {
		if !sameSite(site, declared) {
			return &FormatError{Sheet: sheet.Site, Row: row.Number, Field: colSiteAbbreviation, Value: abbreviation, Err: ErrConflict}
		}
	} else {
		site = declared
		if regionName != nil {
			region, err := r.tx.Sites.FindRegionByName(ctx, *regionName)
			if err != nil {
				return lookupFailure(sheet.Site, row.Number, "region", *regionName, err)
			}
			site.RegionID = &region.ID
		}
		keys := []naturalKey{
			{repository.NaturalKeySiteAbbreviation, colSiteAbbreviation, abbreviation},
			{repository.NaturalKeySiteName, colSiteName, name},
		}
		if err := r.tx.Sites.Create(ctx, site); err != nil {
			return r.storeError(err, sheet.Site, row.Number, keys...)
		}
		r.stored(keys...)
		r.rememberSite(site)
		r.summary.created(KindSites)
		r.log.Debug("created site", logger.String("abbreviation", abbreviation))
	}

	r.registerZone(abbreviation, loc)
	r.registerZone(record.Label, loc)

	record.SiteID = site.ID
	key := naturalKey{repository.NaturalKeyEnvironmentRecordLabel, colRecordLabel, record.Label}
	if err := r.tx.Sites.CreateEnvironmentRecord(ctx, record); err != nil {
		return r.storeError(err, sheet.Site, row.Number, key)
	}
	r.stored(key)
	r.records[record.Label] = record
	r.summary.created(KindEnvironmentRecords)
	return nil
}

// sameSite reports whether a repeated SITE row declares the site an earlier
// row created.
func sameSite(a, b *entities.Site) bool {
	return a.Name == b.Name &&
		a.TimeZone == b.TimeZone &&
		a.Latitude == b.Latitude &&
		a.Longitude == b.Longitude &&
		a.Country == b.Country &&
		equalOpt(a.CountryAbbreviation, b.CountryAbbreviation) &&
		equalOpt(a.SubRegion, b.SubRegion)
}

func equalOpt(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
