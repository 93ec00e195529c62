// Package planner holds the editable state of a tokenomics plan and the
// operations a presentation layer invokes on it. State is a plain value: every
// operation returns a new State and never mutates its receiver, so the caller
// owns the only mutable copy.
package planner

import (
	"github.com/iwvelando/tokenomics-planner/internal/schedule"
	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/mathutil"
)

// State is the complete input of a plan.
type State struct {
	Parameters   schedule.GlobalParameters `json:"token" yaml:"token"`
	Distribution allocation.Distribution   `json:"allocations" yaml:"allocations"`
}

// New returns the default plan.
func New() State {
	return State{
		Parameters:   schedule.DefaultParameters(),
		Distribution: allocation.DefaultDistribution(),
	}
}

// UpdatePercentage sets the share of supply of c, rebalancing the other
// categories if the total would exceed 100%.
func (s State) UpdatePercentage(c allocation.Category, value float64) State {
	s.Distribution = s.Distribution.WithPercentage(c, value)
	return s
}

// UpdateTGEPercent sets the share of c's tokens released at launch.
func (s State) UpdateTGEPercent(c allocation.Category, value float64) State {
	s.Distribution = s.Distribution.WithTGEUnlock(c, value)
	return s
}

// UpdateVestingMonths sets the linear vesting duration of c.
func (s State) UpdateVestingMonths(c allocation.Category, value float64) State {
	s.Distribution = s.Distribution.WithVestingMonths(c, value)
	return s
}

// SetTotalSupply sets the token supply, clamped to [1, 1e18].
func (s State) SetTotalSupply(value float64) State {
	s.Parameters.TotalSupply = mathutil.Clamp(value, constants.MinTotalSupply, constants.MaxTotalSupply)
	return s
}

// SetInitialTokenPrice sets the launch price, clamped to [0, 1e12].
func (s State) SetInitialTokenPrice(value float64) State {
	s.Parameters.InitialTokenPrice = mathutil.Clamp(value, 0, constants.MaxInitialTokenPrice)
	return s
}

// Sanitize clamps every field of a state received from outside into range
// without rebalancing, so an over-allocated plan stays over-allocated.
func (s State) Sanitize() State {
	s = s.SetTotalSupply(s.Parameters.TotalSupply).SetInitialTokenPrice(s.Parameters.InitialTokenPrice)
	for i, a := range s.Distribution {
		s.Distribution[i] = allocation.Allocation{
			Percentage:       mathutil.RoundTo(mathutil.Clamp(a.Percentage, 0, constants.PercentageMultiplier), constants.PercentageDecimalPlaces),
			TGEUnlockPercent: mathutil.RoundTo(mathutil.Clamp(a.TGEUnlockPercent, 0, constants.PercentageMultiplier), constants.PercentageDecimalPlaces),
			VestingMonths:    max(a.VestingMonths, 0),
		}
	}
	return s
}

// Snapshot is everything a presentation layer renders after an edit.
type Snapshot struct {
	State            State           `json:"state"`
	Result           schedule.Result `json:"result"`
	AllocatedPercent float64         `json:"allocatedPercent"`
	OverAllocated    bool            `json:"overAllocated"`
}

// Compute runs sim over the state. A nil simulator uses the default horizon.
func (s State) Compute(sim *schedule.Simulator) Snapshot {
	if sim == nil {
		sim = schedule.NewSimulator(nil, 0)
	}
	allocated := s.Distribution.DecimalTotal().InexactFloat64()
	return Snapshot{
		State:            s,
		Result:           sim.Run(s.Distribution, s.Parameters),
		AllocatedPercent: allocated,
		OverAllocated:    allocated > constants.FullAllocation,
	}
}
