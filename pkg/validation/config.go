// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/mathutil"
	"go.uber.org/zap/zapcore"
)

// ValidateAllocation returns warnings for values of one category that will be
// clamped and for vesting that runs past the schedule horizon.
func ValidateAllocation(name string, a allocation.Allocation, horizonMonths int) []string {
	var warnings []string

	if a.Percentage < 0 || a.Percentage > constants.PercentageMultiplier {
		warnings = append(warnings, fmt.Sprintf("Allocation '%s' percentage %g is outside 0-100 and will be clamped",
			name, a.Percentage))
	}

	if a.TGEUnlockPercent < 0 || a.TGEUnlockPercent > constants.PercentageMultiplier {
		warnings = append(warnings, fmt.Sprintf("Allocation '%s' TGE unlock %g%% is outside 0-100 and will be clamped",
			name, a.TGEUnlockPercent))
	}

	if a.VestingMonths < 0 {
		warnings = append(warnings, fmt.Sprintf("Allocation '%s' vesting of %d months is negative and will be treated as 0",
			name, a.VestingMonths))
	}

	if a.VestingMonths > horizonMonths && a.TGEUnlockPercent < constants.PercentageMultiplier && a.Percentage > 0 {
		warnings = append(warnings, fmt.Sprintf("Allocation '%s' vests over %d months, past the %d-month horizon - later unlocks are not shown",
			name, a.VestingMonths, horizonMonths))
	}

	return warnings
}

// ValidateTotal returns a warning when the category percentages do not add up
// to the whole supply.
func ValidateTotal(total float64) string {
	if mathutil.WithinTolerance(total, constants.FullAllocation, constants.PercentageTolerance) {
		return ""
	}
	if total > constants.FullAllocation {
		return fmt.Sprintf("Allocations total %.1f%%, more than 100%% of supply - circulating supply will be capped at the total supply", total)
	}
	return fmt.Sprintf("Allocations total %.1f%%, %.1f%% of supply is never allocated", total, constants.FullAllocation-total)
}

// ValidateParameters returns warnings for token parameters that will be clamped.
func ValidateParameters(totalSupply, initialTokenPrice float64) []string {
	var warnings []string

	if totalSupply < constants.MinTotalSupply {
		warnings = append(warnings, fmt.Sprintf("Total supply %g is below %g and will be raised to %g",
			totalSupply, constants.MinTotalSupply, constants.MinTotalSupply))
	}

	if totalSupply > constants.MaxTotalSupply {
		warnings = append(warnings, fmt.Sprintf("Total supply %g is above %g and will be lowered to %g",
			totalSupply, constants.MaxTotalSupply, constants.MaxTotalSupply))
	}

	if initialTokenPrice < 0 {
		warnings = append(warnings, fmt.Sprintf("Initial token price %g is negative and will be treated as 0",
			initialTokenPrice))
	}

	if initialTokenPrice > constants.MaxInitialTokenPrice {
		warnings = append(warnings, fmt.Sprintf("Initial token price %g is above %g and will be lowered to %g",
			initialTokenPrice, constants.MaxInitialTokenPrice, constants.MaxInitialTokenPrice))
	}

	return warnings
}

// ValidateHorizon checks that a schedule horizon can be simulated. Zero selects
// the default horizon.
func ValidateHorizon(months int) error {
	if months < 0 || months > constants.MaxHorizonMonths {
		return fmt.Errorf("expected horizon between 1 and %d months, got %d", constants.MaxHorizonMonths, months)
	}
	return nil
}

// ValidateLogging checks the logging level and encoder format. Empty values
// select the defaults.
func ValidateLogging(level, format string) error {
	if level != "" {
		if _, err := zapcore.ParseLevel(strings.ToLower(level)); err != nil {
			return fmt.Errorf("invalid log level: %s", level)
		}
	}
	if format != "" && format != constants.LogFormatJSON && format != constants.LogFormatConsole {
		return fmt.Errorf("invalid log format: %s", format)
	}
	return nil
}
