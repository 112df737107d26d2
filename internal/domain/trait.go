package domain

const (
	InstrumentBFI  = "BFI"
	InstrumentPSQI = "PSQI"
	InstrumentSHS  = "SHS"
)

// Trait identifica una dimension del Big Five.
type Trait string

const (
	TraitAgreeableness     Trait = "Agreeableness"
	TraitConscientiousness Trait = "Conscientiousness"
	TraitExtraversion      Trait = "Extraversion"
	TraitNeuroticism       Trait = "Neuroticism"
	TraitOpenness          Trait = "Openness to Experience"
)

// Traits lists the Big Five dimensions in output column order.
var Traits = []Trait{
	TraitAgreeableness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitNeuroticism,
	TraitOpenness,
}

// PSQI output column names.
const (
	PSQIComp1  = "Comp_1"
	PSQIComp2  = "Comp_2"
	PSQIComp3  = "Comp_3"
	PSQIComp4  = "Comp_4"
	PSQIComp5  = "Comp_5"
	PSQIComp6  = "Comp_6"
	PSQIComp7  = "Comp_7"
	PSQIGlobal = "PSQI"
)

// PSQIComponents lists the component columns in output order.
var PSQIComponents = []string{
	PSQIComp1, PSQIComp2, PSQIComp3, PSQIComp4, PSQIComp5, PSQIComp6, PSQIComp7,
}

// SHSColumn is the output column of the Subjective Happiness Scale.
const SHSColumn = "SHS"

// ScoredColumns returns every column appended to a dataset after scoring, in order.
func ScoredColumns() []string {
	cols := make([]string, 0, len(Traits)+len(PSQIComponents)+2)
	for _, t := range Traits {
		cols = append(cols, string(t))
	}
	cols = append(cols, PSQIComponents...)
	cols = append(cols, PSQIGlobal, SHSColumn)
	return cols
}
