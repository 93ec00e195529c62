package allocation

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSumsToHundred(t *testing.T, d Distribution) {
	t.Helper()
	require.Truef(t, d.DecimalTotal().Equal(decimal.NewFromInt(100)),
		"expected total of 100, got %s (%v)", d.DecimalTotal(), d)
}

func requireNonNegative(t *testing.T, d Distribution) {
	t.Helper()
	for i, a := range d {
		require.GreaterOrEqualf(t, a.Percentage, 0.0, "category %s went negative", Category(i))
	}
}

func TestWithPercentageFitsLeavesOthersUntouched(t *testing.T) {
	d := DefaultDistribution()
	next := d.WithPercentage(PublicSale, 10)

	assert.Equal(t, 10.0, next[PublicSale].Percentage)
	for _, c := range Categories() {
		if c == PublicSale {
			continue
		}
		assert.Equal(t, d[c], next[c], "category %s changed", c)
	}
	assert.Equal(t, 90.0, next.Total())
	// The receiver is not mutated.
	assert.Equal(t, 20.0, d[PublicSale].Percentage)
}

func TestWithPercentageRebalancesProportionally(t *testing.T) {
	next := DefaultDistribution().WithPercentage(PublicSale, 30)

	expected := map[Category]float64{
		PublicSale:      30,
		PrivateSale:     13.1,
		TeamAndAdvisors: 13.1,
		Treasury:        17.5,
		Ecosystem:       13.1,
		StakingRewards:  8.8,
		LiquidityPool:   4.4,
	}
	for c, pct := range expected {
		assert.Equal(t, pct, next[c].Percentage, "category %s", c)
	}
	requireSumsToHundred(t, next)
}

func TestWithPercentageResidualGoesToFirstLargest(t *testing.T) {
	var d Distribution
	d[PublicSale].Percentage = 25
	d[PrivateSale].Percentage = 25
	d[TeamAndAdvisors].Percentage = 25
	d[Treasury].Percentage = 25

	// 25 * 50/75 rounds up to 16.7 three times, overshooting by 0.1.
	next := d.WithPercentage(PublicSale, 50)

	assert.Equal(t, 50.0, next[PublicSale].Percentage)
	assert.Equal(t, 16.6, next[PrivateSale].Percentage)
	assert.Equal(t, 16.7, next[TeamAndAdvisors].Percentage)
	assert.Equal(t, 16.7, next[Treasury].Percentage)
	requireSumsToHundred(t, next)
}

func TestWithPercentageResidualSkipsTarget(t *testing.T) {
	var d Distribution
	d[PublicSale].Percentage = 10
	d[PrivateSale].Percentage = 30
	d[TeamAndAdvisors].Percentage = 30
	d[Treasury].Percentage = 30

	// 30 * 20/90 rounds up to 6.7 three times, overshooting by 0.1. The
	// target holds the largest share but must not absorb the residual.
	next := d.WithPercentage(PublicSale, 80)

	assert.Equal(t, 80.0, next[PublicSale].Percentage)
	assert.Equal(t, 6.6, next[PrivateSale].Percentage)
	assert.Equal(t, 6.7, next[TeamAndAdvisors].Percentage)
	assert.Equal(t, 6.7, next[Treasury].Percentage)
	requireSumsToHundred(t, next)
}

func TestWithPercentageFullAllocationZeroesOthers(t *testing.T) {
	next := DefaultDistribution().WithPercentage(Treasury, 100)

	assert.Equal(t, 100.0, next[Treasury].Percentage)
	for _, c := range Categories() {
		if c != Treasury {
			assert.Equal(t, 0.0, next[c].Percentage, "category %s", c)
		}
	}
	requireSumsToHundred(t, next)

	// Editing another category of an all-in distribution scales from a
	// single non-zero category and must not divide by zero.
	again := next.WithPercentage(PublicSale, 40)
	assert.Equal(t, 40.0, again[PublicSale].Percentage)
	assert.Equal(t, 60.0, again[Treasury].Percentage)
	requireSumsToHundred(t, again)
}

func TestWithPercentageAllOthersZero(t *testing.T) {
	var d Distribution
	next := d.WithPercentage(Ecosystem, 250)

	assert.Equal(t, 100.0, next[Ecosystem].Percentage)
	requireSumsToHundred(t, next)
}

func TestWithPercentageClampsAndRounds(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{name: "negative clamps to zero", value: -3, expected: 0},
		{name: "rounds to one decimal", value: 2.34, expected: 2.3},
		{name: "rounds midpoint up", value: 2.35, expected: 2.4},
		{name: "above hundred clamps", value: 180, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := DefaultDistribution().WithPercentage(LiquidityPool, tt.value)
			assert.Equal(t, tt.expected, next[LiquidityPool].Percentage)
		})
	}
}

func TestWithPercentageInvalidCategory(t *testing.T) {
	d := DefaultDistribution()
	assert.Equal(t, d, d.WithPercentage(Category(42), 50))
}

func TestAbsorbResidualCarriesPastZero(t *testing.T) {
	var d Distribution
	d[PublicSale].Percentage = 99.7
	for _, c := range Categories()[1:] {
		d[c].Percentage = 0.1
	}

	next := d.absorbResidual(PublicSale)

	assert.Equal(t, 99.7, next[PublicSale].Percentage)
	assert.Equal(t, 0.0, next[PrivateSale].Percentage)
	assert.Equal(t, 0.0, next[TeamAndAdvisors].Percentage)
	assert.Equal(t, 0.0, next[Treasury].Percentage)
	assert.Equal(t, 0.1, next[Ecosystem].Percentage)
	assert.Equal(t, 0.1, next[StakingRewards].Percentage)
	assert.Equal(t, 0.1, next[LiquidityPool].Percentage)
	requireSumsToHundred(t, next)
}

func randomDistribution(r *rand.Rand) Distribution {
	var d Distribution
	remaining := 1000
	for i := range d {
		tenths := r.Intn(remaining + 1)
		if i == NumCategories-1 && r.Intn(2) == 0 {
			tenths = remaining
		}
		d[i].Percentage = decimal.New(int64(tenths), -1).InexactFloat64()
		remaining -= tenths
	}
	return d
}

func TestWithPercentageProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for iter := 0; iter < 300; iter++ {
		d := randomDistribution(r)
		target := Category(r.Intn(NumCategories))
		v := float64(r.Intn(1001)) / 10
		otherTotal := d.DecimalTotal().Sub(decimal.NewFromFloat(d[target].Percentage))

		next := d.WithPercentage(target, v)
		requireNonNegative(t, next)
		require.Equal(t, v, next[target].Percentage)

		if otherTotal.Add(decimal.NewFromFloat(v)).LessThanOrEqual(decimal.NewFromInt(100)) {
			for _, c := range Categories() {
				if c != target {
					require.Equal(t, d[c], next[c])
				}
			}
			continue
		}
		requireSumsToHundred(t, next)
	}
}

func TestWithTGEUnlock(t *testing.T) {
	d := DefaultDistribution()

	next := d.WithTGEUnlock(TeamAndAdvisors, 12.34)
	assert.Equal(t, 12.3, next[TeamAndAdvisors].TGEUnlockPercent)
	assert.Equal(t, d[TeamAndAdvisors].Percentage, next[TeamAndAdvisors].Percentage)
	assert.Equal(t, d.Total(), next.Total())

	assert.Equal(t, 100.0, d.WithTGEUnlock(PublicSale, 140)[PublicSale].TGEUnlockPercent)
	assert.Equal(t, 0.0, d.WithTGEUnlock(PublicSale, -1)[PublicSale].TGEUnlockPercent)
}

func TestWithVestingMonths(t *testing.T) {
	d := DefaultDistribution()

	tests := []struct {
		name     string
		value    float64
		expected int
	}{
		{name: "whole months", value: 18, expected: 18},
		{name: "rounds down", value: 18.4, expected: 18},
		{name: "rounds half up", value: 18.5, expected: 19},
		{name: "negative clamps", value: -6, expected: 0},
		{name: "beyond horizon kept", value: 60, expected: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := d.WithVestingMonths(Ecosystem, tt.value)
			assert.Equal(t, tt.expected, next[Ecosystem].VestingMonths)
			assert.Equal(t, d[Ecosystem].Percentage, next[Ecosystem].Percentage)
		})
	}
}
