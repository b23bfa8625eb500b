package tambola

import "github.com/Subas2/SIANG-TAMBOLA/internal/models"

// CalledSet turns a draw sequence into a membership set.
func CalledSet(called []int) map[int]bool {
	set := make(map[int]bool, len(called))
	for _, n := range called {
		set[n] = true
	}
	return set
}

// Evaluate reports whether the grid satisfies the pattern against the called
// set, along with the matched numbers. Pure and safe for concurrent use.
//
// For early5 the matched numbers are deterministically the first five called
// numbers encountered in row-major order, so repeated evaluation of the same
// state is reproducible.
func Evaluate(grid models.Grid, called map[int]bool, pattern models.Pattern) (bool, []int) {
	switch pattern {
	case models.PatternEarly5:
		var matched []int
		for r := 0; r < models.TicketRows; r++ {
			for c := 0; c < models.TicketCols; c++ {
				if n := grid[r][c]; n != 0 && called[n] {
					matched = append(matched, n)
					if len(matched) == 5 {
						return true, matched
					}
				}
			}
		}
		return false, nil
	case models.PatternTopRow:
		return rowComplete(grid, 0, called)
	case models.PatternMidRow:
		return rowComplete(grid, 1, called)
	case models.PatternBotRow:
		return rowComplete(grid, 2, called)
	case models.PatternFullHouse:
		nums := grid.Numbers()
		for _, n := range nums {
			if !called[n] {
				return false, nil
			}
		}
		return true, nums
	default:
		return false, nil
	}
}

// EvaluateAll returns every pattern from the list the grid currently
// satisfies, used to pre-validate a claim before submission.
func EvaluateAll(grid models.Grid, called map[int]bool, patterns []models.Pattern) []models.Pattern {
	var satisfied []models.Pattern
	for _, p := range patterns {
		if ok, _ := Evaluate(grid, called, p); ok {
			satisfied = append(satisfied, p)
		}
	}
	return satisfied
}

func rowComplete(grid models.Grid, row int, called map[int]bool) (bool, []int) {
	nums := grid.Row(row)
	if len(nums) == 0 {
		return false, nil
	}
	for _, n := range nums {
		if !called[n] {
			return false, nil
		}
	}
	return true, nums
}
