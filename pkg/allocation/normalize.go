package allocation

import (
	"math"

	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var fullAllocation = decimal.NewFromFloat(constants.FullAllocation)

// DecimalTotal sums the percentages exactly, on their shortest decimal
// representations, so one-decimal values add up without binary drift.
func (d Distribution) DecimalTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range d {
		total = total.Add(decimal.NewFromFloat(a.Percentage))
	}
	return total
}

// WithPercentage returns a copy of d with the percentage of target set to
// value, clamped to [0,100] and rounded to one decimal.
//
// If the new value together with the other categories fits within 100%, the
// other categories are left untouched and the total may stay below 100%.
// Otherwise every other category is scaled by (100-value)/otherTotal, rounded to
// one decimal, and the rounding residual is absorbed by the largest non-target
// category so the result sums to exactly 100%.
func (d Distribution) WithPercentage(target Category, value float64) Distribution {
	next := d
	if !target.Valid() {
		return next
	}

	v := mathutil.RoundTo(mathutil.Clamp(value, 0, constants.FullAllocation), constants.PercentageDecimalPlaces)

	otherTotal := decimal.Zero
	for i, a := range d {
		if Category(i) != target {
			otherTotal = otherTotal.Add(decimal.NewFromFloat(a.Percentage))
		}
	}

	next[target].Percentage = v
	if otherTotal.Add(decimal.NewFromFloat(v)).LessThanOrEqual(fullAllocation) {
		return next
	}

	// v <= 100 implies otherTotal > 0 here.
	if !otherTotal.IsPositive() {
		return next
	}

	scale := (constants.FullAllocation - v) / otherTotal.InexactFloat64()
	for i, a := range d {
		if Category(i) == target {
			continue
		}
		next[i].Percentage = mathutil.RoundTo(a.Percentage*scale, constants.PercentageDecimalPlaces)
	}

	return next.absorbResidual(target)
}

// absorbResidual adds 100 minus the total to the largest non-target category.
// A correction that would push that category below zero zeroes it and carries
// the remainder to the next largest.
func (d Distribution) absorbResidual(target Category) Distribution {
	residual := fullAllocation.Sub(d.DecimalTotal())
	var exhausted [NumCategories]bool
	exhausted[target] = true

	for !residual.IsZero() {
		largest := -1
		for i, a := range d {
			if exhausted[i] {
				continue
			}
			if largest < 0 || a.Percentage > d[largest].Percentage {
				largest = i
			}
		}
		if largest < 0 {
			break
		}

		adjusted := decimal.NewFromFloat(d[largest].Percentage).Add(residual)
		if adjusted.IsNegative() {
			d[largest].Percentage = 0
			exhausted[largest] = true
			residual = adjusted
			continue
		}
		d[largest].Percentage = adjusted.InexactFloat64()
		residual = decimal.Zero
	}
	return d
}

// WithTGEUnlock returns a copy of d with the TGE unlock percentage of target set
// to value, clamped to [0,100] and rounded to one decimal. Other categories are
// never touched.
func (d Distribution) WithTGEUnlock(target Category, value float64) Distribution {
	next := d
	if !target.Valid() {
		return next
	}
	next[target].TGEUnlockPercent = mathutil.RoundTo(mathutil.Clamp(value, 0, constants.PercentageMultiplier), constants.PercentageDecimalPlaces)
	return next
}

// WithVestingMonths returns a copy of d with the vesting duration of target set
// to value, clamped to be non-negative and rounded to the nearest month.
func (d Distribution) WithVestingMonths(target Category, value float64) Distribution {
	next := d
	if !target.Valid() {
		return next
	}
	next[target].VestingMonths = int(math.Round(mathutil.Clamp(value, 0, math.MaxInt32)))
	return next
}
