// Package schedule defines the data structures of a token unlock schedule and
// includes the simulator that computes it month by month.
package schedule

import (
	"math"

	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// GlobalParameters holds the token-wide inputs of a plan.
type GlobalParameters struct {
	TotalSupply       float64 `json:"totalSupply" yaml:"totalSupply" mapstructure:"totalSupply"`
	InitialTokenPrice float64 `json:"initialTokenPrice" yaml:"initialTokenPrice" mapstructure:"initialTokenPrice"`
}

// DefaultParameters returns the parameters offered to new plans.
func DefaultParameters() GlobalParameters {
	return GlobalParameters{
		TotalSupply:       constants.DefaultTotalSupply,
		InitialTokenPrice: constants.DefaultInitialTokenPrice,
	}
}

// UnlockPoint is the circulating supply at the end of one month.
type UnlockPoint struct {
	Month              int     `json:"month"`
	CirculatingTokens  float64 `json:"circulatingTokens"`
	PercentCirculating float64 `json:"percentCirculating"`
}

// Result holds one schedule computation.
type Result struct {
	Points  []UnlockPoint `json:"points"`
	Metrics Metrics       `json:"metrics"`
	// TruncatedCategories lists categories still vesting after the horizon;
	// their later unlocks are not part of Points.
	TruncatedCategories []allocation.Category `json:"truncatedCategories,omitempty"`
}

// HorizonMonths returns the last month index of the schedule.
func (r Result) HorizonMonths() int {
	return len(r.Points) - 1
}

// FullyUnlockedMonth returns the first month at which the whole supply
// circulates, if that happens within the horizon.
func (r Result) FullyUnlockedMonth() (int, bool) {
	for _, p := range r.Points {
		if mathutil.WithinTolerance(p.PercentCirculating, constants.PercentageMultiplier, constants.PercentageTolerance) {
			return p.Month, true
		}
	}
	return 0, false
}

// Simulator computes unlock schedules over a fixed horizon.
type Simulator struct {
	logger  *zap.Logger
	horizon int
}

// NewSimulator creates a simulator. A nil logger is replaced with a no-op
// logger and a non-positive horizon selects the default 48 months.
func NewSimulator(logger *zap.Logger, horizonMonths int) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonMonths <= 0 {
		horizonMonths = constants.DefaultHorizonMonths
	}
	if horizonMonths > constants.MaxHorizonMonths {
		horizonMonths = constants.MaxHorizonMonths
	}
	return &Simulator{logger: logger, horizon: horizonMonths}
}

// Simulate computes the default 48-month schedule of dist.
func Simulate(dist allocation.Distribution, params GlobalParameters) Result {
	return NewSimulator(nil, 0).Run(dist, params)
}

// Run computes the schedule of dist from scratch. It is a pure function of its
// inputs; params are expected to be clamped already (supply >= 1, price >= 0).
func (s *Simulator) Run(dist allocation.Distribution, params GlobalParameters) Result {
	// Raw per-month unlock amounts; index is the month.
	unlocks := make([]float64, s.horizon+1)
	var truncated []allocation.Category

	dist.Each(func(c allocation.Category, a allocation.Allocation) {
		tokenAmount := math.Floor(mathutil.ApplyPercentage(params.TotalSupply, a.Percentage))
		tgeAmount := math.Floor(mathutil.ApplyPercentage(tokenAmount, a.TGEUnlockPercent))
		remainingAmount := tokenAmount - tgeAmount

		unlocks[0] += tgeAmount

		if a.VestingMonths <= 0 {
			return
		}
		monthlyUnlock := remainingAmount / float64(a.VestingMonths)
		lastMonth := min(a.VestingMonths, s.horizon)
		for month := 1; month <= lastMonth; month++ {
			unlocks[month] += monthlyUnlock
		}

		if a.VestingMonths > s.horizon {
			truncated = append(truncated, c)
			s.logger.Debug("vesting extends past schedule horizon",
				zap.String("op", "schedule.Run"),
				zap.String("category", c.String()),
				zap.Int("vestingMonths", a.VestingMonths),
				zap.Int("horizonMonths", s.horizon),
			)
		}
	})

	points := make([]UnlockPoint, len(unlocks))
	cumulative := 0.0
	for month, amount := range unlocks {
		cumulative += amount
		circulating := math.Min(cumulative, params.TotalSupply)
		points[month] = UnlockPoint{
			Month:              month,
			CirculatingTokens:  circulating,
			PercentCirculating: mathutil.CalculatePercentage(circulating, params.TotalSupply),
		}
	}

	if cumulative > params.TotalSupply {
		s.logger.Debug("circulating supply capped at total supply",
			zap.String("op", "schedule.Run"),
			zap.Float64("uncapped", cumulative),
			zap.Float64("totalSupply", params.TotalSupply),
		)
	}

	return Result{
		Points:              points,
		Metrics:             computeMetrics(points[0].CirculatingTokens, dist, params),
		TruncatedCategories: truncated,
	}
}
