package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
)

func TestValidateAllocation(t *testing.T) {
	tests := []struct {
		name          string
		allocation    allocation.Allocation
		horizon       int
		expectWarns   int
		expectContain string
	}{
		{
			name:        "In range",
			allocation:  allocation.Allocation{Percentage: 20, TGEUnlockPercent: 10, VestingMonths: 12},
			horizon:     48,
			expectWarns: 0,
		},
		{
			name:          "Percentage above 100",
			allocation:    allocation.Allocation{Percentage: 120, VestingMonths: 12},
			horizon:       48,
			expectWarns:   1,
			expectContain: "percentage 120",
		},
		{
			name:          "Negative TGE unlock",
			allocation:    allocation.Allocation{Percentage: 10, TGEUnlockPercent: -5, VestingMonths: 12},
			horizon:       48,
			expectWarns:   1,
			expectContain: "TGE unlock -5%",
		},
		{
			name:          "Negative vesting",
			allocation:    allocation.Allocation{Percentage: 10, VestingMonths: -1},
			horizon:       48,
			expectWarns:   1,
			expectContain: "negative",
		},
		{
			name:          "Vesting past horizon",
			allocation:    allocation.Allocation{Percentage: 10, VestingMonths: 60},
			horizon:       48,
			expectWarns:   1,
			expectContain: "past the 48-month horizon",
		},
		{
			name:        "Vesting past horizon fully unlocked at TGE",
			allocation:  allocation.Allocation{Percentage: 10, TGEUnlockPercent: 100, VestingMonths: 60},
			horizon:     48,
			expectWarns: 0,
		},
		{
			name:        "Vesting past horizon on empty category",
			allocation:  allocation.Allocation{VestingMonths: 60},
			horizon:     48,
			expectWarns: 0,
		},
		{
			name:        "Vesting exactly at horizon",
			allocation:  allocation.Allocation{Percentage: 10, VestingMonths: 48},
			horizon:     48,
			expectWarns: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateAllocation("treasury", tt.allocation, tt.horizon)
			if len(warnings) != tt.expectWarns {
				t.Fatalf("ValidateAllocation() returned %d warnings, expected %d: %v", len(warnings), tt.expectWarns, warnings)
			}
			if tt.expectContain != "" && !strings.Contains(warnings[0], tt.expectContain) {
				t.Errorf("ValidateAllocation() warning %q does not contain %q", warnings[0], tt.expectContain)
			}
			for _, w := range warnings {
				if !strings.Contains(w, "'treasury'") {
					t.Errorf("Warning %q does not name the category", w)
				}
			}
		})
	}
}

func TestValidateTotal(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		contains string
	}{
		{name: "Exactly full", total: 100, contains: ""},
		{name: "Under allocated", total: 95, contains: "5.0% of supply is never allocated"},
		{name: "Over allocated", total: 110, contains: "more than 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateTotal(tt.total)
			if tt.contains == "" {
				if warning != "" {
					t.Errorf("ValidateTotal(%v) unexpected warning %q", tt.total, warning)
				}
				return
			}
			if !strings.Contains(warning, tt.contains) {
				t.Errorf("ValidateTotal(%v) = %q, expected to contain %q", tt.total, warning, tt.contains)
			}
		})
	}
}

func TestValidateParameters(t *testing.T) {
	if warnings := ValidateParameters(1_000_000, 0); len(warnings) != 0 {
		t.Errorf("Unexpected warnings for valid parameters: %v", warnings)
	}
	if warnings := ValidateParameters(0, -1); len(warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %v", warnings)
	}
	warnings := ValidateParameters(1e307, 1e300)
	if len(warnings) != 2 || !strings.Contains(warnings[0], "will be lowered to 1e+18") {
		t.Errorf("Expected supply and price ceiling warnings, got %v", warnings)
	}
}

func TestValidateHorizon(t *testing.T) {
	tests := []struct {
		months    int
		expectErr bool
	}{
		{months: 0, expectErr: false},
		{months: 48, expectErr: false},
		{months: 600, expectErr: false},
		{months: 601, expectErr: true},
		{months: -1, expectErr: true},
	}

	for _, tt := range tests {
		err := ValidateHorizon(tt.months)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateHorizon(%d) error = %v, expectErr %t", tt.months, err, tt.expectErr)
		}
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		expectErr bool
	}{
		{name: "Defaults", level: "", format: "", expectErr: false},
		{name: "Debug console", level: "debug", format: "console", expectErr: false},
		{name: "Uppercase level", level: "WARN", format: "json", expectErr: false},
		{name: "Unknown level", level: "verbose", format: "json", expectErr: true},
		{name: "Unknown format", level: "info", format: "xml", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogging(tt.level, tt.format)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateLogging(%q, %q) error = %v, expectErr %t", tt.level, tt.format, err, tt.expectErr)
			}
		})
	}
}
