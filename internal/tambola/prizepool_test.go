package tambola

import (
	"testing"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputePool(t *testing.T) {
	pool := ComputePool(100, 50, 80, models.PrizeSplit{models.PatternFullHouse: 100})
	assert.Equal(t, int64(5000), pool.Revenue)
	assert.Equal(t, int64(4000), pool.Total)
	assert.Equal(t, int64(4000), pool.PerPattern[models.PatternFullHouse])
}

func TestComputePoolDefaultSplitFloors(t *testing.T) {
	// 33 seats at 77 => revenue 2541, total floor(2541*0.8) = 2032.
	pool := ComputePool(77, 33, 80, models.DefaultSplit())
	assert.Equal(t, int64(2032), pool.Total)
	assert.Equal(t, int64(203), pool.PerPattern[models.PatternEarly5])    // floor(2032*0.10)
	assert.Equal(t, int64(304), pool.PerPattern[models.PatternTopRow])    // floor(2032*0.15)
	assert.Equal(t, int64(914), pool.PerPattern[models.PatternFullHouse]) // floor(2032*0.45)
}

func TestComputePoolZeroSales(t *testing.T) {
	pool := ComputePool(100, 0, 80, models.DefaultSplit())
	assert.Zero(t, pool.Total)
	for p, amt := range pool.PerPattern {
		assert.Zerof(t, amt, "pattern %s", p)
	}
}
