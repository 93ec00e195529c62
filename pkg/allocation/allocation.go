// Package allocation defines the fixed set of token allocation categories, the
// distribution of supply across them, and the normalizer that keeps category
// percentages consistent as they are edited.
package allocation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category identifies one of the fixed allocation buckets.
type Category int

// The categories in their canonical iteration order. Ties during rebalancing
// are broken by this order.
const (
	PublicSale Category = iota
	PrivateSale
	TeamAndAdvisors
	Treasury
	Ecosystem
	StakingRewards
	LiquidityPool

	// NumCategories is the number of allocation categories.
	NumCategories = int(LiquidityPool) + 1
)

var categoryKeys = [NumCategories]string{
	"publicSale",
	"privateSale",
	"teamAndAdvisors",
	"treasury",
	"ecosystem",
	"stakingRewards",
	"liquidityPool",
}

var categoryLabels = [NumCategories]string{
	"Public Sale",
	"Private Sale",
	"Team & Advisors",
	"Treasury",
	"Ecosystem",
	"Staking Rewards",
	"Liquidity Pool",
}

// String returns the category's stable key, e.g. "publicSale".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryKeys[c]
}

// Label returns a human-readable category name.
func (c Category) Label() string {
	if !c.Valid() {
		return c.String()
	}
	return categoryLabels[c]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < NumCategories
}

// MarshalText encodes the category as its key.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown allocation category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category key.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a category key. Matching ignores case because viper
// lower-cases map keys it reads from configuration files.
func ParseCategory(key string) (Category, error) {
	trimmed := strings.TrimSpace(key)
	for i, k := range categoryKeys {
		if strings.EqualFold(k, trimmed) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown allocation category %q", key)
}

// Categories returns all categories in canonical order.
func Categories() []Category {
	all := make([]Category, NumCategories)
	for i := range all {
		all[i] = Category(i)
	}
	return all
}

// Allocation holds the parameters of a single category.
type Allocation struct {
	Percentage       float64 `json:"percentage" yaml:"percentage" mapstructure:"percentage"`
	TGEUnlockPercent float64 `json:"tgeUnlockPercent" yaml:"tgeUnlockPercent" mapstructure:"tgeUnlockPercent"`
	VestingMonths    int     `json:"vestingMonths" yaml:"vestingMonths" mapstructure:"vestingMonths"`
}

// Distribution maps every category to its allocation. It is a fixed-size array
// so copies never alias and the key set cannot change.
type Distribution [NumCategories]Allocation

// DefaultDistribution returns the starting distribution offered to new plans.
func DefaultDistribution() Distribution {
	return Distribution{
		PublicSale:      {Percentage: 20, TGEUnlockPercent: 10, VestingMonths: 12},
		PrivateSale:     {Percentage: 15, TGEUnlockPercent: 5, VestingMonths: 24},
		TeamAndAdvisors: {Percentage: 15, TGEUnlockPercent: 0, VestingMonths: 36},
		Treasury:        {Percentage: 20, TGEUnlockPercent: 0, VestingMonths: 48},
		Ecosystem:       {Percentage: 15, TGEUnlockPercent: 5, VestingMonths: 36},
		StakingRewards:  {Percentage: 10, TGEUnlockPercent: 0, VestingMonths: 48},
		LiquidityPool:   {Percentage: 5, TGEUnlockPercent: 20, VestingMonths: 24},
	}
}

// Get returns the allocation of c.
func (d Distribution) Get(c Category) Allocation {
	return d[c]
}

// Total sums the percentages of all categories.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, a := range d {
		total += a.Percentage
	}
	return total
}

// Each calls fn for every category in canonical order.
func (d Distribution) Each(fn func(Category, Allocation)) {
	for i, a := range d {
		fn(Category(i), a)
	}
}

// Map returns the distribution keyed by category key, for serialization.
func (d Distribution) Map() map[string]Allocation {
	out := make(map[string]Allocation, NumCategories)
	d.Each(func(c Category, a Allocation) {
		out[c.String()] = a
	})
	return out
}

// FromMap builds a distribution from a key-indexed map. Categories missing from
// m are left at zero; unknown keys and keys naming the same category are
// reported.
func FromMap(m map[string]Allocation) (Distribution, error) {
	var d Distribution
	var unknown []string
	seen := make(map[Category][]string, len(m))
	for key, a := range m {
		c, err := ParseCategory(key)
		if err != nil {
			unknown = append(unknown, key)
			continue
		}
		seen[c] = append(seen[c], key)
		d[c] = a
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return d, fmt.Errorf("unknown allocation categories: %s", strings.Join(unknown, ", "))
	}
	var duplicates []string
	for _, c := range Categories() {
		if keys := seen[c]; len(keys) > 1 {
			sort.Strings(keys)
			duplicates = append(duplicates, fmt.Sprintf("%s (%s)", c, strings.Join(keys, ", ")))
		}
	}
	if len(duplicates) > 0 {
		return d, fmt.Errorf("duplicate allocation categories: %s", strings.Join(duplicates, "; "))
	}
	return d, nil
}

// MarshalJSON encodes the distribution as an object keyed by category key.
func (d Distribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// UnmarshalJSON decodes an object keyed by category key. Missing categories
// are zero; unknown keys and keys repeating a category are rejected.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	var m map[string]Allocation
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes the distribution as a mapping in canonical category
// order rather than the alphabetical order of a Go map.
func (d Distribution) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for i, a := range d {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: Category(i).String(),
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(a); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// UnmarshalYAML decodes a mapping keyed by category key.
func (d *Distribution) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]Allocation
	if err := value.Decode(&m); err != nil {
		return err
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
