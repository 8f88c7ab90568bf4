package importer

import (
	"maps"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"

	"github.com/reefgenomics/reefkb/internal/sheet"
)

// Entity kinds counted in a Summary.
const (
	KindSites              = "sites"
	KindEnvironmentRecords = "environment_records"
	KindAssays             = "assays"
	KindHeatStressProfiles = "heat_stress_profiles"
	KindDives              = "dives"
	KindDiveTablePhotos    = "dive_table_photos"
	KindCoralSpecies       = "coral_species"
	KindColonies           = "colonies"
	KindColonyPhotos       = "colony_photos"
	KindFragments          = "fragments"
	KindFragmentPhotos     = "fragment_photos"
	KindBioSamples         = "biosamples"
	KindSequencingEfforts  = "sequencing_efforts"
)

// Summary describes one import run.
type Summary struct {
	RunID    string         `json:"run_id"`
	Workbook string         `json:"workbook,omitempty"`
	Checksum string         `json:"checksum,omitempty"`
	Campaign string         `json:"campaign"`
	DryRun   bool           `json:"dry_run"`
	Rows     map[string]int `json:"rows"`
	Created  map[string]int `json:"created"`
	Duration time.Duration  `json:"duration_ns"`
}

func newSummary() *Summary {
	return &Summary{Rows: make(map[string]int), Created: make(map[string]int)}
}

func (s *Summary) addRows(name sheet.Name, n int) {
	s.Rows[string(name)] += n
}

func (s *Summary) created(kind string) {
	s.Created[kind]++
}

// Count returns the number of created entities of kind.
func (s *Summary) Count(kind string) int {
	return s.Created[kind]
}

// Kinds returns the entity kinds with at least one created row, sorted.
func (s *Summary) Kinds() []string {
	return slices.Sorted(maps.Keys(s.Created))
}

// JSON encodes the summary for the import_runs table.
func (s *Summary) JSON() (datatypes.JSON, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
