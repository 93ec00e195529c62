// Package output provides utilities for formatting and displaying unlock schedules.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
	"github.com/iwvelando/tokenomics-planner/pkg/format"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, snap planner.Snapshot) {
	params := snap.State.Parameters
	m := snap.Result.Metrics

	fmt.Fprintf(w, "--- Token plan ---\n")
	fmt.Fprintf(w, "Total supply:        %s tokens\n", format.Tokens(params.TotalSupply))
	fmt.Fprintf(w, "Initial price:       %s\n", format.Price(params.InitialTokenPrice))
	fmt.Fprintf(w, "Allocated:           %s", format.Percent(snap.AllocatedPercent))
	if snap.OverAllocated {
		fmt.Fprintf(w, " (over-allocated)")
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "TGE circulating:     %s tokens (%s)\n", format.Tokens(m.TGECirculatingTokens), format.Percent(m.TGECirculatingPercent))
	fmt.Fprintf(w, "Initial market cap:  %s\n", format.Currency(m.InitialMarketCap))
	fmt.Fprintf(w, "Fully diluted value: %s\n", format.Currency(m.FullyDilutedValue))
	fmt.Fprintf(w, "FDV / market cap:    %s\n", format.Ratio(m.FDVToMarketCapRatio))
	if month, ok := snap.Result.FullyUnlockedMonth(); ok {
		fmt.Fprintf(w, "Fully unlocked:      month %d\n", month)
	}

	fmt.Fprintf(w, "\n--- Allocations ---\n")
	fmt.Fprintf(w, "%-16s | %6s | %6s | %s\n", "Category", "Share", "TGE", "Vesting")
	fmt.Fprintf(w, "%-16s | %6s | %6s | %s\n", "________", "_____", "___", "_______")
	snap.State.Distribution.Each(func(c allocation.Category, a allocation.Allocation) {
		fmt.Fprintf(w, "%-16s | %6s | %6s | %d months\n",
			c.Label(), format.Percent(a.Percentage), format.Percent(a.TGEUnlockPercent), a.VestingMonths)
	})

	fmt.Fprintf(w, "\n--- Unlock schedule ---\n")
	fmt.Fprintf(w, "Month | Circulating     | Supply\n")
	fmt.Fprintf(w, "_____ | _______________ | ______\n")
	for _, p := range snap.Result.Points {
		fmt.Fprintf(w, "%5d | %15s | %s\n", p.Month, format.Tokens(p.CirculatingTokens), format.Percent(p.PercentCirculating))
	}

	if len(snap.Result.TruncatedCategories) > 0 {
		labels := make([]string, len(snap.Result.TruncatedCategories))
		for i, c := range snap.Result.TruncatedCategories {
			labels[i] = c.Label()
		}
		fmt.Fprintf(w, "\nStill vesting after month %d: %s\n", snap.Result.HorizonMonths(), strings.Join(labels, ", "))
	}

	if len(m.Warnings) > 0 {
		fmt.Fprintf(w, "\n--- Warnings ---\n")
		for _, warning := range m.Warnings {
			fmt.Fprintf(w, "- %s\n", warning.Message)
		}
	}
}

// CsvFormat writes the unlock schedule in comma-separated value format.
func CsvFormat(w io.Writer, snap planner.Snapshot) {
	_, _ = io.WriteString(w, CsvString(snap))
}

// CsvString returns the unlock schedule in comma-separated value format.
func CsvString(snap planner.Snapshot) string {
	var builder strings.Builder

	builder.WriteString(`"month","circulatingTokens","percentCirculating"`)
	builder.WriteString("\n")
	for _, p := range snap.Result.Points {
		builder.WriteString(fmt.Sprintf(`"%d","%.0f","%.4f"`, p.Month, p.CirculatingTokens, p.PercentCirculating))
		builder.WriteString("\n")
	}

	return builder.String()
}

// JSONFormat writes the complete snapshot as indented JSON.
func JSONFormat(w io.Writer, snap planner.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}
