package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		input    string
		expected Rank
		wantErr  bool
	}{
		{input: "2", expected: Two},
		{input: "9", expected: Nine},
		{input: "10", expected: Ten},
		{input: "T", expected: Ten},
		{input: "t", expected: Ten},
		{input: "0", expected: Ten},
		{input: "j", expected: Jack},
		{input: "Q", expected: Queen},
		{input: " k ", expected: King},
		{input: "a", expected: Ace},
		{input: "1", wantErr: true},
		{input: "11", wantErr: true},
		{input: "", wantErr: true},
		{input: "X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rank, err := ParseRank(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rank)
		})
	}
}

func TestRankLabelsRoundTrip(t *testing.T) {
	ranks := Ranks()
	require.Len(t, ranks, NumRanks)
	assert.Equal(t, Two, ranks[0])
	assert.Equal(t, Ace, ranks[NumRanks-1])

	for _, r := range ranks {
		parsed, err := ParseRank(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	assert.Equal(t, "?", Rank(13).String())
	assert.False(t, Rank(-1).Valid())
}

func TestParseRanks(t *testing.T) {
	ranks, err := ParseRanks("2, 10 K\nA,t")
	require.NoError(t, err)
	assert.Equal(t, []Rank{Two, Ten, King, Ace, Ten}, ranks)

	_, err = ParseRanks("2 3 Z")
	assert.Error(t, err)

	ranks, err = ParseRanks("  ")
	require.NoError(t, err)
	assert.Empty(t, ranks)
}

func TestGroups(t *testing.T) {
	total := 0
	for _, g := range Groups() {
		for _, r := range g.Ranks() {
			assert.Equal(t, g, GroupOf(r), "rank %s", r)
			total++
		}
	}
	assert.Equal(t, NumRanks, total)

	assert.Equal(t, "2-6", Low.Span())
	assert.Equal(t, "7-9", Neutral.Span())
	assert.Equal(t, "10-A", High.Span())
	assert.Equal(t, "Neutral", Neutral.Label())

	g, err := ParseGroup("H")
	require.NoError(t, err)
	assert.Equal(t, High, g)

	_, err = ParseGroup("medium")
	assert.Error(t, err)
}

func TestRankText(t *testing.T) {
	text, err := Queen.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Q", string(text))

	var r Rank
	require.NoError(t, r.UnmarshalText([]byte("10")))
	assert.Equal(t, Ten, r)

	_, err = Rank(42).MarshalText()
	assert.Error(t, err)
}
