package scoring

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questionnaire-reader/internal/domain"
)

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func TestScoreBFIAllAgree(t *testing.T) {
	res, err := ScoreBFI(repeat("מסכים", BFIItemCount))
	require.NoError(t, err)
	assert.Empty(t, res.Issues)

	expected := map[domain.Trait]float64{
		domain.TraitAgreeableness:     28.0 / 9.0,
		domain.TraitConscientiousness: 28.0 / 9.0,
		domain.TraitExtraversion:      3.25,
		domain.TraitNeuroticism:       3.25,
		domain.TraitOpenness:          3.6,
	}
	for trait, want := range expected {
		got := res.Scores[trait]
		assert.True(t, got.Valid, trait)
		assert.InDelta(t, want, got.Value, 1e-12, trait)
	}
}

func TestScoreBFINeutralIsExactlyThree(t *testing.T) {
	res, err := ScoreBFI(repeat("3", BFIItemCount))
	require.NoError(t, err)
	for _, trait := range domain.Traits {
		assert.Equal(t, domain.NewScore(3), res.Scores[trait], trait)
	}
}

func TestScoreBFIReversedContribution(t *testing.T) {
	for v := 1; v <= 5; v++ {
		responses := repeat("", BFIItemCount)
		// item 1 is the only agreeableness item answered and it is reverse keyed
		responses[1] = strconv.Itoa(v)

		res, err := ScoreBFI(responses)
		require.NoError(t, err)
		assert.Equal(t, float64(6-v), res.Scores[domain.TraitAgreeableness].Value)
	}
}

func TestScoreBFIRange(t *testing.T) {
	for seed := 0; seed < 50; seed++ {
		responses := make([]string, BFIItemCount)
		for i := range responses {
			responses[i] = strconv.Itoa((i*7+seed*13)%5 + 1)
		}
		res, err := ScoreBFI(responses)
		require.NoError(t, err)
		for _, trait := range domain.Traits {
			s := res.Scores[trait]
			require.True(t, s.Valid)
			assert.GreaterOrEqual(t, s.Value, 1.0)
			assert.LessOrEqual(t, s.Value, 5.0)
		}
	}
}

func TestScoreBFIMissingItemsAreExcluded(t *testing.T) {
	responses := repeat("4", BFIItemCount)
	for _, i := range BFIItems(domain.TraitNeuroticism) {
		responses[i] = ""
	}
	responses[4] = "לא ידוע"

	res, err := ScoreBFI(responses)
	require.NoError(t, err)

	assert.False(t, res.Scores[domain.TraitNeuroticism].Valid)
	// openness loses item 4 (4): nine items left, two of them reversed
	assert.InDelta(t, 32.0/9.0, res.Scores[domain.TraitOpenness].Value, 1e-12)

	kinds := map[domain.IssueKind]int{}
	for _, issue := range res.Issues {
		kinds[issue.Kind]++
	}
	assert.Equal(t, 8, kinds[domain.IssueMissing])
	assert.Equal(t, 1, kinds[domain.IssueUnmapped])
	assert.Equal(t, 1, kinds[domain.IssueEmpty])
}

func TestScoreBFIWrongLength(t *testing.T) {
	_, err := ScoreBFI(repeat("4", 43))
	assert.ErrorIs(t, err, ErrBFIItemCount)
}

func TestBFIPartitionCoversEveryItemOnce(t *testing.T) {
	seen := map[int]int{}
	for _, trait := range domain.Traits {
		for _, i := range BFIItems(trait) {
			seen[i]++
		}
	}
	assert.Len(t, seen, BFIItemCount)
	for i, n := range seen {
		assert.Equal(t, 1, n, "item %d", i)
	}

	reversed := 0
	for i := 0; i < BFIItemCount; i++ {
		if BFIReversed(i) {
			reversed++
		}
	}
	assert.Equal(t, 16, reversed)
}

func TestScoreBFIIsDeterministic(t *testing.T) {
	responses := repeat("מסכים בהחלט", BFIItemCount)
	responses[10] = "בהחלט לא מסכים"
	first, err := ScoreBFI(responses)
	require.NoError(t, err)
	second, err := ScoreBFI(responses)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
