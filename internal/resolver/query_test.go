package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	q, err := NewQuery(" brca1 ", "Homo  Sapiens")
	require.NoError(t, err)
	assert.Equal(t, GeneQuery{Symbol: "BRCA1", Organism: "homo_sapiens"}, q)

	q, err = NewQuery("tp53", "")
	require.NoError(t, err)
	assert.Empty(t, q.Organism)

	_, err = NewQuery("  ", "homo_sapiens")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTruncate(t *testing.T) {
	full := "ACGTACGTACGTACGTACGTACGTACGTACGTACGT"

	for _, l := range []int{1, 12, 30, 150} {
		got := Truncate(full, l)
		assert.LessOrEqual(t, len(got), l)
		assert.True(t, strings.HasPrefix(full, got), "prefix law for L=%d", l)
		if l <= len(full) {
			assert.Equal(t, full[:l], got)
		}
	}

	assert.Equal(t, "ACG", Truncate("ACG", 12), "short sequences are never padded")
	assert.Equal(t, full, Truncate(full, 0))
	assert.Equal(t, full, Truncate(full, -1))
}

func TestIsNucleotide(t *testing.T) {
	tests := []struct {
		seq  string
		want bool
	}{
		{"ACGTN", true},
		{"GATTACA", true},
		{"", false},
		{"acgt", false},
		{"ACGU", false},
		{"<HTML>SERVICE BUSY</HTML>", false},
		{"ACG T", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNucleotide(tt.seq), "IsNucleotide(%q)", tt.seq)
	}
}

func TestResolutionError(t *testing.T) {
	err := &ResolutionError{
		Symbol:  "FAKEGENE",
		Attempt: ResolutionAttempt{OrganismsTried: []string{"homo_sapiens", "mus_musculus"}},
	}
	assert.Equal(t, "could not resolve sequence for FAKEGENE (organisms tried: homo_sapiens, mus_musculus)", err.Error())
	assert.ErrorIs(t, err, ErrResolution)

	pooled := &ResolutionError{Attempt: ResolutionAttempt{TriesUsed: 20}}
	assert.Equal(t, "could not resolve sequence after 20 tries", pooled.Error())
}
