// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/tokenomics-planner/internal/schedule"
)

// FindPoint finds the unlock point for a month in the result.
// Returns a pointer to the point if found, nil otherwise.
func FindPoint(result schedule.Result, month int) *schedule.UnlockPoint {
	for i := range result.Points {
		if result.Points[i].Month == month {
			return &result.Points[i]
		}
	}
	return nil
}

// WarningCodes returns the codes of the result's warnings in order.
func WarningCodes(result schedule.Result) []schedule.WarningCode {
	var codes []schedule.WarningCode
	for _, w := range result.Metrics.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}
