package domain

import (
	"math"
	"strconv"
)

var nullJSON = []byte("null")

// Score is a continuous scale score that may be undefined.
type Score struct {
	Value float64
	Valid bool
}

// NewScore wraps v; NaN and infinities are stored as undefined.
func NewScore(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Score{}
	}
	return Score{Value: v, Valid: true}
}

// String renders the score for CSV output; undefined scores render empty.
func (s Score) String() string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return nullJSON, nil
	}
	return strconv.AppendFloat(nil, s.Value, 'f', -1, 64), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score{}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = NewScore(v)
	return nil
}

// Ordinal is an integer component score that may be undefined.
type Ordinal struct {
	Value int
	Valid bool
}

func NewOrdinal(v int) Ordinal {
	return Ordinal{Value: v, Valid: true}
}

func (o Ordinal) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.Itoa(o.Value)
}

func (o Ordinal) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return nullJSON, nil
	}
	return strconv.AppendInt(nil, int64(o.Value), 10), nil
}

func (o *Ordinal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Ordinal{}
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*o = NewOrdinal(v)
	return nil
}
