package domain

import "fmt"

// IssueKind classifies why a response or score could not be used.
type IssueKind string

const (
	IssueMissing        IssueKind = "missing"
	IssueUnmapped       IssueKind = "unmapped"
	IssueMalformedTime  IssueKind = "malformed_time"
	IssueDivisionByZero IssueKind = "division_by_zero"
	IssueEmpty          IssueKind = "empty"
	IssuePanic          IssueKind = "panic"
	IssueItemCount      IssueKind = "item_count"    // response vector of the wrong length
	IssueMalformedRow   IssueKind = "malformed_row" // CSV record longer than the header
)

// Issue reports a problem with a single field of a single respondent.
// Item names the response item or, for IssueEmpty, the trait/component left undefined.
type Issue struct {
	Instrument string    `json:"instrument"`
	Item       string    `json:"item"`
	Kind       IssueKind `json:"kind"`
	Value      string    `json:"value,omitempty"`
}

func (i Issue) String() string {
	if i.Value == "" {
		return fmt.Sprintf("%s[%s]: %s", i.Instrument, i.Item, i.Kind)
	}
	return fmt.Sprintf("%s[%s]: %s (%q)", i.Instrument, i.Item, i.Kind, i.Value)
}
