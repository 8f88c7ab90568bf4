package importer

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
)

// Taxon is the NCBI taxonomy of one coral species.
type Taxon struct {
	Binomial     string `yaml:"binomial"`
	Phylum       string `yaml:"phylum"`
	Class        string `yaml:"class"`
	Order        string `yaml:"order"`
	Family       string `yaml:"family"`
	Genus        string `yaml:"genus"`
	Monomial     string `yaml:"monomial"`
	NCBITaxID    int    `yaml:"ncbi_tax_id"`
	Abbreviation string `yaml:"abbreviation,omitempty"`
}

// Species builds the CoralSpecies row. A non-empty abbreviation from the
// submission wins over the registry's.
func (t Taxon) Species(abbreviation string) *entities.CoralSpecies {
	if abbreviation == "" {
		abbreviation = t.Abbreviation
	}
	return &entities.CoralSpecies{
		Phylum:          t.Phylum,
		Class:           t.Class,
		Order:           t.Order,
		Family:          t.Family,
		Genus:           t.Genus,
		SpeciesMonomial: t.Monomial,
		SpeciesBinomial: t.Binomial,
		NCBITaxID:       t.NCBITaxID,
		Abbreviation:    abbreviation,
	}
}

func (t Taxon) validate() error {
	switch {
	case t.Binomial == "":
		return fmt.Errorf("binomial missing")
	case t.Binomial != t.Genus+" "+t.Monomial:
		return fmt.Errorf("%s: binomial does not match genus and monomial", t.Binomial)
	case t.NCBITaxID <= 0:
		return fmt.Errorf("%s: ncbi_tax_id must be positive", t.Binomial)
	case t.Phylum == "" || t.Class == "" || t.Order == "" || t.Family == "":
		return fmt.Errorf("%s: incomplete lineage", t.Binomial)
	}
	return nil
}

// stylophoraPistillata is always known.
var stylophoraPistillata = Taxon{
	Binomial:     "Stylophora pistillata",
	Phylum:       "Cnidaria",
	Class:        "Anthozoa",
	Order:        "Scleractinia",
	Family:       "Pocilloporidae",
	Genus:        "Stylophora",
	Monomial:     "pistillata",
	NCBITaxID:    50429,
	Abbreviation: "SPIS",
}

// Taxonomy resolves binomial names of species not yet in the database.
type Taxonomy struct {
	byBinomial map[string]Taxon
}

// NewTaxonomy returns a registry holding the built-in species.
func NewTaxonomy() *Taxonomy {
	t := &Taxonomy{byBinomial: make(map[string]Taxon)}
	t.byBinomial[stylophoraPistillata.Binomial] = stylophoraPistillata
	return t
}

type taxonomyFile struct {
	Species []Taxon `yaml:"species"`
}

// LoadTaxonomy reads a YAML registry from path on top of the built-in
// species. An empty path yields the built-in registry.
func LoadTaxonomy(fs afero.Fs, path string) (*Taxonomy, error) {
	t := NewTaxonomy()
	if path == "" {
		return t, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.New(err).
			Component("importer").
			Category(errors.CategoryFileIO).
			Context("taxonomy_file", path).
			Build()
	}
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.New(err).
			Component("importer").
			Category(errors.CategoryFileParsing).
			Context("taxonomy_file", path).
			Build()
	}
	for _, taxon := range file.Species {
		taxon.Binomial = canonicalBinomial(taxon.Binomial)
		if err := taxon.validate(); err != nil {
			return nil, errors.New(err).
				Component("importer").
				Category(errors.CategoryValidation).
				Context("taxonomy_file", path).
				Build()
		}
		t.byBinomial[taxon.Binomial] = taxon
	}
	GetLogger().Debug("taxonomy loaded", logger.String("path", path), logger.Int("species", t.Len()))
	return t, nil
}

// Lookup returns the taxon of a binomial name.
func (t *Taxonomy) Lookup(binomial string) (Taxon, bool) {
	taxon, ok := t.byBinomial[canonicalBinomial(binomial)]
	return taxon, ok
}

// Len returns the number of known species.
func (t *Taxonomy) Len() int {
	return len(t.byBinomial)
}

// canonicalBinomial collapses runs of white space.
func canonicalBinomial(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
