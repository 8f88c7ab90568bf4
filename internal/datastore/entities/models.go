package entities

// All returns every model in migration order. Parents precede children so
// foreign key constraints can be created on every backend.
func All() []any {
	return []any{
		&User{},
		&Campaign{},
		&Region{},
		&Site{},
		&EnvironmentRecord{},
		&Dive{},
		&DiveTablePhoto{},
		&CoralSpecies{},
		&AssayBase{},
		&CBASSAssay{},
		&CalcificationAssay{},
		&HeatStressProfile{},
		&Colony{},
		&ColonyPhoto{},
		&CBASSFragmentPhoto{},
		&FragmentBase{},
		&CBASSNucleicAcidFragment{},
		&CBASSAssayFragment{},
		&NCBIBioSample{},
		&SequencingEffortBase{},
		&SequencingEffortBarcode{},
		&SequencingEffortMetagenomic{},
		&SequencingEffortRNASeq{},
		&ImportRun{},
	}
}
