package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestScoreUndefinedEncodesAsNull(t *testing.T) {
	payload := struct {
		A Score   `json:"a"`
		B Ordinal `json:"b"`
	}{A: NewScore(math.NaN())}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"a":null,"b":null}` {
		t.Fatalf("unexpected json: %s", raw)
	}
}

func TestScoreValidEncodesNumber(t *testing.T) {
	raw, err := json.Marshal(NewScore(3.25))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "3.25" {
		t.Fatalf("expected 3.25, got %s", raw)
	}

	var back Score
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Valid || back.Value != 3.25 {
		t.Fatalf("unexpected decoded score: %+v", back)
	}
}

func TestCellsRenderUndefinedAsEmpty(t *testing.T) {
	r := RespondentScores{
		BFI:  BFIResult{Scores: map[Trait]Score{TraitOpenness: NewScore(3.6)}},
		PSQI: PSQIResult{Components: map[string]Ordinal{PSQIComp1: NewOrdinal(2)}},
	}
	cells := r.Cells()
	if cells[string(TraitOpenness)] != "3.6" {
		t.Fatalf("expected 3.6, got %q", cells[string(TraitOpenness)])
	}
	if cells[string(TraitNeuroticism)] != "" {
		t.Fatalf("expected empty neuroticism cell, got %q", cells[string(TraitNeuroticism)])
	}
	if cells[PSQIComp1] != "2" || cells[PSQIComp4] != "" || cells[PSQIGlobal] != "" {
		t.Fatalf("unexpected psqi cells: %+v", cells)
	}
	if len(cells) != len(ScoredColumns()) {
		t.Fatalf("expected %d cells, got %d", len(ScoredColumns()), len(cells))
	}
}
