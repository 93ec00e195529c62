package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
)

func defaultSnapshot() planner.Snapshot {
	return planner.New().Compute(nil)
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, defaultSnapshot())
	output := buf.String()

	expected := []string{
		"--- Token plan ---",
		"Total supply:        1,000,000,000 tokens",
		"Initial price:       $0.001",
		"Allocated:           100.0%\n",
		"TGE circulating:     45,000,000 tokens (4.5%)",
		"Initial market cap:  $45,000.00",
		"Fully diluted value: $1,000,000.00",
		"FDV / market cap:    22.2x",
		"Fully unlocked:      month 48",
		"Team & Advisors",
		"    0 |      45,000,000 | 4.5%",
		"   48 |   1,000,000,000 | 100.0%",
	}
	for _, s := range expected {
		if !strings.Contains(output, s) {
			t.Errorf("PrettyFormat missing %q", s)
		}
	}

	if strings.Contains(output, "--- Warnings ---") {
		t.Errorf("PrettyFormat printed warnings for the default plan")
	}
	if strings.Contains(output, "Still vesting") {
		t.Errorf("PrettyFormat reported truncated categories for the default plan")
	}
}

func TestPrettyFormatWarningsAndTruncation(t *testing.T) {
	s := planner.New().
		UpdateVestingMonths(allocation.Treasury, 72).
		UpdateTGEPercent(allocation.LiquidityPool, 0)
	s.Distribution[allocation.TeamAndAdvisors].Percentage = 30

	var buf bytes.Buffer
	PrettyFormat(&buf, s.Compute(nil))
	output := buf.String()

	if !strings.Contains(output, "(over-allocated)") {
		t.Errorf("PrettyFormat missing over-allocation marker")
	}
	if !strings.Contains(output, "Still vesting after month 48: Treasury") {
		t.Errorf("PrettyFormat missing truncated categories")
	}
	if !strings.Contains(output, "- Team allocation appears high") {
		t.Errorf("PrettyFormat missing team warning")
	}
	if strings.Contains(output, "Fully unlocked:") {
		t.Errorf("PrettyFormat reported a full unlock inside the horizon")
	}
}

func TestPrettyFormatInfiniteRatio(t *testing.T) {
	s := planner.New()
	for _, c := range allocation.Categories() {
		s = s.UpdateTGEPercent(c, 0)
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, s.Compute(nil))

	if !strings.Contains(buf.String(), "FDV / market cap:    n/a") {
		t.Errorf("PrettyFormat should print n/a for an infinite ratio")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, defaultSnapshot())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("Expected header plus 49 rows, got %d lines", len(lines))
	}
	if lines[0] != `"month","circulatingTokens","percentCirculating"` {
		t.Errorf("Unexpected header %s", lines[0])
	}
	if lines[1] != `"0","45000000","4.5000"` {
		t.Errorf("Unexpected month 0 row %s", lines[1])
	}
	if lines[49] != `"48","1000000000","100.0000"` {
		t.Errorf("Unexpected month 48 row %s", lines[49])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	snap := defaultSnapshot()

	var buf bytes.Buffer
	CsvFormat(&buf, snap)

	if buf.String() != CsvString(snap) {
		t.Errorf("CsvString and CsvFormat disagree")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, defaultSnapshot()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded planner.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSONFormat() produced invalid JSON: %v", err)
	}
	if len(decoded.Result.Points) != 49 {
		t.Errorf("Expected 49 points, got %d", len(decoded.Result.Points))
	}
	if decoded.State != planner.New() {
		t.Errorf("State did not survive JSON encoding")
	}
	if !strings.Contains(buf.String(), `"publicSale": {`) {
		t.Errorf("JSONFormat should key allocations by category")
	}
}
