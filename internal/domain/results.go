package domain

// BFIResult holds the five trait means of one respondent.
type BFIResult struct {
	Scores map[Trait]Score `json:"scores"`
	Issues []Issue         `json:"issues,omitempty"`
}

// Cells renders the result keyed by output column.
func (r BFIResult) Cells() map[string]string {
	cells := make(map[string]string, len(Traits))
	for _, t := range Traits {
		cells[string(t)] = r.Scores[t].String()
	}
	return cells
}

// PSQIResult holds the seven component scores and the global score.
type PSQIResult struct {
	Components map[string]Ordinal `json:"components"`
	Global     Ordinal            `json:"psqi"`
	Issues     []Issue            `json:"issues,omitempty"`
}

func (r PSQIResult) Cells() map[string]string {
	cells := make(map[string]string, len(PSQIComponents)+1)
	for _, c := range PSQIComponents {
		cells[c] = r.Components[c].String()
	}
	cells[PSQIGlobal] = r.Global.String()
	return cells
}

// SHSResult holds the subjective happiness mean.
type SHSResult struct {
	Score  Score   `json:"score"`
	Issues []Issue `json:"issues,omitempty"`
}

func (r SHSResult) Cells() map[string]string {
	return map[string]string{SHSColumn: r.Score.String()}
}

// RespondentScores groups the scored output of one dataset row.
type RespondentScores struct {
	ID   string     `json:"id"`
	Row  int        `json:"row"`
	BFI  BFIResult  `json:"bfi"`
	PSQI PSQIResult `json:"psqi"`
	SHS  SHSResult  `json:"shs"`
	// Extra carries issues not tied to an instrument scorer, such as recovered panics.
	Extra []Issue `json:"extra_issues,omitempty"`
}

// Issues returns every issue raised for the respondent.
func (r RespondentScores) Issues() []Issue {
	out := make([]Issue, 0, len(r.BFI.Issues)+len(r.PSQI.Issues)+len(r.SHS.Issues)+len(r.Extra))
	out = append(out, r.BFI.Issues...)
	out = append(out, r.PSQI.Issues...)
	out = append(out, r.SHS.Issues...)
	out = append(out, r.Extra...)
	return out
}

// Cells merges the scored columns of all instruments.
func (r RespondentScores) Cells() map[string]string {
	cells := r.BFI.Cells()
	for k, v := range r.PSQI.Cells() {
		cells[k] = v
	}
	for k, v := range r.SHS.Cells() {
		cells[k] = v
	}
	return cells
}
