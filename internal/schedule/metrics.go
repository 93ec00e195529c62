package schedule

import (
	"encoding/json"
	"math"

	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/mathutil"
)

// WarningCode categorizes warnings by the rule that raised them.
type WarningCode string

const (
	WarnHighTGEUnlock      WarningCode = "high_tge_unlock"
	WarnHighFDVRatio       WarningCode = "high_fdv_ratio"
	WarnHighTeamAllocation WarningCode = "high_team_allocation"
	WarnLowLiquidity       WarningCode = "low_liquidity_allocation"
)

// Warning represents a tokenomics risk detected in a plan.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// String returns the warning message.
func (w Warning) String() string {
	return w.Message
}

// Metrics holds the market figures derived from a schedule.
type Metrics struct {
	TGECirculatingTokens  float64
	TGECirculatingPercent float64
	InitialMarketCap      float64
	FullyDilutedValue     float64
	// FDVToMarketCapRatio is +Inf when nothing circulates at TGE and NaN when
	// a zero price makes both values zero.
	FDVToMarketCapRatio float64
	Warnings            []Warning
}

// WarningMessages returns the warning texts in rule order.
func (m Metrics) WarningMessages() []string {
	if len(m.Warnings) == 0 {
		return nil
	}
	messages := make([]string, len(m.Warnings))
	for i, w := range m.Warnings {
		messages[i] = w.Message
	}
	return messages
}

type metricsJSON struct {
	TGECirculatingTokens  float64   `json:"tgeCirculatingTokens"`
	TGECirculatingPercent float64   `json:"tgeCirculatingPercent"`
	InitialMarketCap      float64   `json:"initialMarketCap"`
	FullyDilutedValue     float64   `json:"fullyDilutedValue"`
	FDVToMarketCapRatio   *float64  `json:"fdvToMarketCapRatio"`
	Warnings              []Warning `json:"warnings"`
}

// MarshalJSON encodes an infinite or undefined ratio as null.
func (m Metrics) MarshalJSON() ([]byte, error) {
	out := metricsJSON{
		TGECirculatingTokens:  m.TGECirculatingTokens,
		TGECirculatingPercent: m.TGECirculatingPercent,
		InitialMarketCap:      m.InitialMarketCap,
		FullyDilutedValue:     m.FullyDilutedValue,
		Warnings:              m.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []Warning{}
	}
	if !math.IsInf(m.FDVToMarketCapRatio, 0) && !math.IsNaN(m.FDVToMarketCapRatio) {
		ratio := m.FDVToMarketCapRatio
		out.FDVToMarketCapRatio = &ratio
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null ratio back to +Inf when nothing circulates at
// TGE and to NaN otherwise.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	var in metricsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = Metrics{
		TGECirculatingTokens:  in.TGECirculatingTokens,
		TGECirculatingPercent: in.TGECirculatingPercent,
		InitialMarketCap:      in.InitialMarketCap,
		FullyDilutedValue:     in.FullyDilutedValue,
		FDVToMarketCapRatio:   math.Inf(1),
		Warnings:              in.Warnings,
	}
	switch {
	case in.FDVToMarketCapRatio != nil:
		m.FDVToMarketCapRatio = *in.FDVToMarketCapRatio
	case in.TGECirculatingTokens > 0:
		m.FDVToMarketCapRatio = math.NaN()
	}
	if len(m.Warnings) == 0 {
		m.Warnings = nil
	}
	return nil
}

func computeMetrics(tgeCirculating float64, dist allocation.Distribution, params GlobalParameters) Metrics {
	m := Metrics{
		TGECirculatingTokens:  tgeCirculating,
		TGECirculatingPercent: mathutil.CalculatePercentage(tgeCirculating, params.TotalSupply),
		InitialMarketCap:      tgeCirculating * params.InitialTokenPrice,
		FullyDilutedValue:     params.TotalSupply * params.InitialTokenPrice,
		FDVToMarketCapRatio:   math.Inf(1),
	}

	if tgeCirculating > 0 {
		if m.InitialMarketCap > 0 {
			m.FDVToMarketCapRatio = m.FullyDilutedValue / m.InitialMarketCap
		} else {
			// 0/0 at a zero price; NaN never exceeds the FDV threshold.
			m.FDVToMarketCapRatio = math.NaN()
		}
	}

	m.Warnings = evaluateWarnings(m, dist)
	return m
}

// evaluateWarnings applies every rule independently, in a fixed order.
func evaluateWarnings(m Metrics, dist allocation.Distribution) []Warning {
	var warnings []Warning

	if m.TGECirculatingPercent > constants.HighTGEUnlockPercent {
		warnings = append(warnings, Warning{
			Code:    WarnHighTGEUnlock,
			Message: "High TGE unlock may cause price instability",
		})
	}

	if m.TGECirculatingTokens > 0 && m.FDVToMarketCapRatio > constants.HighFDVToMarketCapRatio {
		warnings = append(warnings, Warning{
			Code:    WarnHighFDVRatio,
			Message: "High FDV/MCap ratio indicates significant future dilution",
		})
	}

	if dist.Get(allocation.TeamAndAdvisors).Percentage > constants.HighTeamAllocationPercent {
		warnings = append(warnings, Warning{
			Code:    WarnHighTeamAllocation,
			Message: "Team allocation appears high",
		})
	}

	if dist.Get(allocation.LiquidityPool).Percentage < constants.LowLiquidityAllocationPercent {
		warnings = append(warnings, Warning{
			Code:    WarnLowLiquidity,
			Message: "Low liquidity allocation may cause price volatility",
		})
	}

	return warnings
}
