package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDropDuplicates_KeepsFirstOccurrence(t *testing.T) {
	table := &Table{
		Columns: []string{"year", "price"},
		Rows: [][]string{
			{"2014", "450000"},
			{"2017", "730000"},
			{"2014", "450000"},
			{"2014", "460000"},
		},
	}

	got := table.DropDuplicates()
	assert.Equal(t, 3, got.NumRows())
	assert.Equal(t, []string{"2014", "450000"}, got.Rows[0])
	assert.Equal(t, []string{"2014", "460000"}, got.Rows[2])
}

func TestDropMissingIn_RemovesRowsWithMissingTarget(t *testing.T) {
	table := &Table{
		Columns: []string{"year", "price"},
		Rows: [][]string{
			{"2014", "450000"},
			{"2017", ""},
			{"2011", "NA"},
			{"2019", "812000"},
		},
	}

	got := table.DropMissingIn("price")
	assert.Equal(t, 2, got.NumRows())
	for _, row := range got.Rows {
		assert.False(t, IsMissing(row[1]))
	}
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("  "))
	assert.True(t, IsMissing("NA"))
	assert.True(t, IsMissing("NaN"))
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing("Petrol"))
}
