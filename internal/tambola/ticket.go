// Package tambola implements the pure game rules: ticket generation, win
// evaluation and prize pool math. Nothing in here touches the ledger.
package tambola

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
)

// maxRebalanceMoves bounds the row-rebalancing loop. Each move strictly
// reduces the total row overfill, and a 3x9 grid with 15 numbers can start at
// most 10 over quota in a single row, so hitting this bound means the
// placement logic itself is broken.
const maxRebalanceMoves = 100

// GenerateTicket produces a structurally valid tambola grid: 15 numbers,
// exactly 5 per row, each column holding 1-3 numbers from its fixed range in
// ascending row order. The only input is the randomness source; a non-nil
// error indicates an internal defect, not a retryable condition.
func GenerateTicket(rng *rand.Rand) (models.Grid, error) {
	counts := columnCounts(rng)

	// Draw each column's values without replacement, ascending.
	colVals := make([][]int, models.TicketCols)
	for c := 0; c < models.TicketCols; c++ {
		lo, hi := models.ColumnRange(c)
		pool := rng.Perm(hi - lo + 1)
		vals := make([]int, counts[c])
		for i := range vals {
			vals[i] = lo + pool[i]
		}
		sort.Ints(vals)
		colVals[c] = vals
	}

	var grid models.Grid
	rowCount := [models.TicketRows]int{}

	// Greedy placement: prefer rows still under the 5-per-row quota.
	for c := 0; c < models.TicketCols; c++ {
		rows := pickRows(rng, rowCount, counts[c])
		sort.Ints(rows)
		for i, r := range rows {
			grid[r][c] = colVals[c][i]
			rowCount[r]++
		}
	}

	// Residual imbalance from the greedy pass: shift numbers from the most
	// over-filled row to the most under-filled one, one at a time.
	for moves := 0; ; moves++ {
		over, under := -1, -1
		for r := 0; r < models.TicketRows; r++ {
			if rowCount[r] > models.NumbersPerRow && (over == -1 || rowCount[r] > rowCount[over]) {
				over = r
			}
			if rowCount[r] < models.NumbersPerRow && (under == -1 || rowCount[r] < rowCount[under]) {
				under = r
			}
		}
		if over == -1 && under == -1 {
			break
		}
		if moves >= maxRebalanceMoves || over == -1 || under == -1 {
			return models.Grid{}, fmt.Errorf("%w: ticket rebalancing did not converge (rows %v)", errs.ErrInvariant, rowCount)
		}

		moved := false
		for c := 0; c < models.TicketCols; c++ {
			if grid[over][c] != 0 && grid[under][c] == 0 {
				grid[under][c] = grid[over][c]
				grid[over][c] = 0
				rowCount[over]--
				rowCount[under]++
				resortColumn(&grid, c)
				moved = true
				break
			}
		}
		if !moved {
			return models.Grid{}, fmt.Errorf("%w: no movable number between rows %d and %d", errs.ErrInvariant, over, under)
		}
	}

	return grid, nil
}

// columnCounts assigns each column a count in {1,2,3} summing to 15: every
// column starts at 1, then 6 random increments go to columns below the cap.
func columnCounts(rng *rand.Rand) [models.TicketCols]int {
	var counts [models.TicketCols]int
	for c := range counts {
		counts[c] = 1
	}
	for remaining := models.NumbersPerTicket - models.TicketCols; remaining > 0; {
		c := rng.Intn(models.TicketCols)
		if counts[c] < 3 {
			counts[c]++
			remaining--
		}
	}
	return counts
}

// pickRows selects k distinct rows for one column, randomly among rows under
// quota first, falling back to any row when the column needs more.
func pickRows(rng *rand.Rand, rowCount [models.TicketRows]int, k int) []int {
	var underQuota, atQuota []int
	for r := 0; r < models.TicketRows; r++ {
		if rowCount[r] < models.NumbersPerRow {
			underQuota = append(underQuota, r)
		} else {
			atQuota = append(atQuota, r)
		}
	}
	rng.Shuffle(len(underQuota), func(i, j int) { underQuota[i], underQuota[j] = underQuota[j], underQuota[i] })
	rng.Shuffle(len(atQuota), func(i, j int) { atQuota[i], atQuota[j] = atQuota[j], atQuota[i] })

	rows := append(underQuota, atQuota...)
	if k > len(rows) {
		k = len(rows)
	}
	return append([]int(nil), rows[:k]...)
}

// resortColumn reassigns a column's values so they ascend down the occupied rows.
func resortColumn(grid *models.Grid, c int) {
	var rows, vals []int
	for r := 0; r < models.TicketRows; r++ {
		if grid[r][c] != 0 {
			rows = append(rows, r)
			vals = append(vals, grid[r][c])
		}
	}
	sort.Ints(vals)
	for i, r := range rows {
		grid[r][c] = vals[i]
	}
}
