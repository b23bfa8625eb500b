package tambola

import (
	"math/rand"
	"testing"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/stretchr/testify/require"
)

// validateGrid asserts every structural ticket invariant.
func validateGrid(t *testing.T, grid models.Grid) {
	t.Helper()

	total := 0
	for r := 0; r < models.TicketRows; r++ {
		rowCount := 0
		for c := 0; c < models.TicketCols; c++ {
			if grid[r][c] != 0 {
				rowCount++
				total++
			}
		}
		require.Equalf(t, models.NumbersPerRow, rowCount, "row %d must hold exactly 5 numbers: %v", r, grid)
	}
	require.Equal(t, models.NumbersPerTicket, total)

	for c := 0; c < models.TicketCols; c++ {
		lo, hi := models.ColumnRange(c)
		seen := map[int]bool{}
		prev := 0
		filled := 0
		for r := 0; r < models.TicketRows; r++ {
			n := grid[r][c]
			if n == 0 {
				continue
			}
			filled++
			require.GreaterOrEqualf(t, n, lo, "col %d value %d below range", c, n)
			require.LessOrEqualf(t, n, hi, "col %d value %d above range", c, n)
			require.Falsef(t, seen[n], "col %d repeats %d", c, n)
			require.Greaterf(t, n, prev, "col %d not ascending: %v", c, grid)
			seen[n] = true
			prev = n
		}
		require.GreaterOrEqualf(t, filled, 1, "col %d must not be empty", c)
		require.LessOrEqual(t, filled, 3)
	}
}

func TestGenerateTicketAlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		grid, err := GenerateTicket(rng)
		require.NoError(t, err, "generation %d", i)
		validateGrid(t, grid)
	}
}

func TestGenerateTicketDistinctAcrossCalls(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a, err := GenerateTicket(rng)
	require.NoError(t, err)
	b, err := GenerateTicket(rng)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "consecutive tickets should differ")
}

func TestColumnCountsSumTo15(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		counts := columnCounts(rng)
		sum := 0
		for _, n := range counts {
			require.GreaterOrEqual(t, n, 1)
			require.LessOrEqual(t, n, 3)
			sum += n
		}
		require.Equal(t, models.NumbersPerTicket, sum)
	}
}
