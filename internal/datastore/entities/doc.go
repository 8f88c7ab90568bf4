// Package entities defines the GORM entity models of the reef catalogue.
//
// # Catalogue Entities
//
//   - User, Campaign: people and the research projects they lead or join
//   - Region, Site, EnvironmentRecord: where and under which conditions sampling happened
//   - Dive, DiveTablePhoto: field excursions to a site
//   - CoralSpecies, Colony, ColonyPhoto: sampled coral individuals
//
// # Polymorphic Hierarchies
//
// Assays, fragments and sequencing efforts each have a base table carrying a
// type discriminator and the shared columns, plus one table per variant keyed
// by the base primary key:
//
//   - assays → cbass_assays, calcification_assays
//   - fragments → cbass_nucleic_acid_fragments, cbass_assay_fragments
//   - sequencing_efforts → sequencing_effort_barcodes, sequencing_effort_metagenomics,
//     sequencing_effort_rnaseqs
//
// On the Go side each hierarchy is a closed interface (Assay, Fragment,
// SequencingEffort) implemented only by the variant structs of this package.
//
// Every foreign key is declared on the child with ON DELETE CASCADE, so
// deleting a Site removes its dives, colonies, records and assays transitively.
// Parents deliberately do not declare the reverse has-many associations.
package entities
