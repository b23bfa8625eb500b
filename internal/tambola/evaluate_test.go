package tambola

import (
	"testing"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGrid builds a fixed valid-enough grid for evaluator tests.
func testGrid() models.Grid {
	return models.Grid{
		{4, 13, 0, 0, 52, 0, 0, 0, 88},
		{0, 14, 25, 31, 0, 61, 0, 78, 0},
		{7, 0, 28, 0, 55, 0, 70, 0, 90},
	}
}

func TestEvaluateTopRow(t *testing.T) {
	grid := testGrid()

	ok, matched := Evaluate(grid, CalledSet([]int{4, 13, 52, 88}), models.PatternTopRow)
	require.True(t, ok, "all top-row numbers called")
	assert.Equal(t, []int{4, 13, 52, 88}, matched)

	ok, matched = Evaluate(grid, CalledSet([]int{4, 13, 52}), models.PatternTopRow)
	assert.False(t, ok)
	assert.Nil(t, matched)
}

func TestEvaluateEarly5FirstFiveRowMajor(t *testing.T) {
	grid := testGrid()
	called := CalledSet([]int{90, 70, 55, 28, 14, 13})

	ok, matched := Evaluate(grid, called, models.PatternEarly5)
	require.True(t, ok)
	// Row-major scan order, not call order.
	assert.Equal(t, []int{13, 14, 28, 55, 70}, matched)

	ok, _ = Evaluate(grid, CalledSet([]int{13, 14, 28, 90}), models.PatternEarly5)
	assert.False(t, ok, "only four matches")
}

func TestEvaluateFullHouse(t *testing.T) {
	grid := testGrid()
	all := grid.Numbers()
	require.Len(t, all, 14) // fixture rows hold 4/5/5

	ok, matched := Evaluate(grid, CalledSet(all), models.PatternFullHouse)
	require.True(t, ok)
	assert.Equal(t, all, matched)

	ok, _ = Evaluate(grid, CalledSet(all[:len(all)-1]), models.PatternFullHouse)
	assert.False(t, ok)
}

func TestEvaluateAll(t *testing.T) {
	grid := testGrid()
	called := CalledSet(append(grid.Row(0), grid.Row(1)...))

	got := EvaluateAll(grid, called, models.AllPatterns)
	assert.Equal(t, []models.Pattern{models.PatternEarly5, models.PatternTopRow, models.PatternMidRow}, got)
}

func TestEvaluateMidAndBottomRows(t *testing.T) {
	grid := testGrid()

	ok, matched := Evaluate(grid, CalledSet(grid.Row(1)), models.PatternMidRow)
	require.True(t, ok)
	assert.Equal(t, grid.Row(1), matched)

	ok, matched = Evaluate(grid, CalledSet(grid.Row(2)), models.PatternBotRow)
	require.True(t, ok)
	assert.Equal(t, grid.Row(2), matched)
}
