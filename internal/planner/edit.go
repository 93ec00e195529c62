package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
)

// Op names an edit operation.
type Op string

const (
	OpUpdatePercentage     Op = "updatePercentage"
	OpUpdateTGEPercent     Op = "updateTgePercent"
	OpUpdateVestingMonths  Op = "updateVestingMonths"
	OpSetTotalSupply       Op = "setTotalSupply"
	OpSetInitialTokenPrice Op = "setInitialTokenPrice"
)

// Valid reports whether o names one of the edit operations.
func (o Op) Valid() bool {
	switch o {
	case OpUpdatePercentage, OpUpdateTGEPercent, OpUpdateVestingMonths, OpSetTotalSupply, OpSetInitialTokenPrice:
		return true
	}
	return false
}

var (
	// ErrUnknownOp is returned for edits naming an operation that does not exist.
	ErrUnknownOp = errors.New("unknown edit operation")
	// ErrInvalidEdit is returned for edit expressions that cannot be parsed.
	ErrInvalidEdit = errors.New("invalid edit")
)

// Edit is one user input. Category is only used by the per-category operations.
type Edit struct {
	Op       Op      `json:"op"`
	Category string  `json:"category,omitempty"`
	Value    float64 `json:"value"`
}

// Apply returns the state with e applied. Numeric values are clamped rather
// than rejected; only an unknown operation or category is an error.
func (s State) Apply(e Edit) (State, error) {
	switch e.Op {
	case OpSetTotalSupply:
		return s.SetTotalSupply(e.Value), nil
	case OpSetInitialTokenPrice:
		return s.SetInitialTokenPrice(e.Value), nil
	case OpUpdatePercentage, OpUpdateTGEPercent, OpUpdateVestingMonths:
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}

	c, err := allocation.ParseCategory(e.Category)
	if err != nil {
		return s, err
	}

	switch e.Op {
	case OpUpdatePercentage:
		return s.UpdatePercentage(c, e.Value), nil
	case OpUpdateTGEPercent:
		return s.UpdateTGEPercent(c, e.Value), nil
	default:
		return s.UpdateVestingMonths(c, e.Value), nil
	}
}

// ApplyAll applies edits in order. On error the state before the failing edit
// is returned together with the error.
func (s State) ApplyAll(edits []Edit) (State, error) {
	for i, e := range edits {
		next, err := s.Apply(e)
		if err != nil {
			return s, fmt.Errorf("edit %d: %w", i, err)
		}
		s = next
	}
	return s, nil
}

// ParseEdit parses a command-line edit expression:
//
//	totalSupply=500000000
//	initialTokenPrice=0.02
//	publicSale.percentage=25
//	teamAndAdvisors.tgeUnlockPercent=5
//	treasury.vestingMonths=60
func ParseEdit(expr string) (Edit, error) {
	key, rawValue, ok := strings.Cut(expr, "=")
	if !ok {
		return Edit{}, fmt.Errorf("%w %q: expected key=value", ErrInvalidEdit, expr)
	}
	key = strings.TrimSpace(key)

	value, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: %v", ErrInvalidEdit, expr, err)
	}

	category, field, perCategory := strings.Cut(key, ".")
	if !perCategory {
		switch strings.ToLower(key) {
		case "totalsupply":
			return Edit{Op: OpSetTotalSupply, Value: value}, nil
		case "initialtokenprice", "price":
			return Edit{Op: OpSetInitialTokenPrice, Value: value}, nil
		}
		return Edit{}, fmt.Errorf("%w %q: unknown parameter %q", ErrInvalidEdit, expr, key)
	}

	c, err := allocation.ParseCategory(category)
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: %v", ErrInvalidEdit, expr, err)
	}

	var op Op
	switch strings.ToLower(field) {
	case "percentage":
		op = OpUpdatePercentage
	case "tgeunlockpercent", "tge":
		op = OpUpdateTGEPercent
	case "vestingmonths", "vesting":
		op = OpUpdateVestingMonths
	default:
		return Edit{}, fmt.Errorf("%w %q: unknown field %q", ErrInvalidEdit, expr, field)
	}
	return Edit{Op: op, Category: c.String(), Value: value}, nil
}
