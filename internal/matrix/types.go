// Package matrix defines the values that flow through the chart pipeline:
// the request a user submits, the axes it names, and the scored items a
// generator response is parsed into.
package matrix

import (
	"encoding/json"
	"strings"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

// Score bounds for both axes.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// ScoredItem is one plotted entity
type ScoredItem struct {
	Name string  `json:"name"`
	X    float64 `json:"x"` // position along axis 1, 0..100
	Y    float64 `json:"y"` // position along axis 2, 0..100
}

// AxisSpec describes one chart axis. Description is only used when
// building the prompt; it is never drawn.
type AxisSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ItemSet is an ordered, immutable sequence of scored items.
// The zero value is an empty set.
type ItemSet struct {
	items []ScoredItem
}

// NewItemSet copies items into a new set, preserving order.
func NewItemSet(items []ScoredItem) ItemSet {
	if len(items) == 0 {
		return ItemSet{}
	}
	cp := make([]ScoredItem, len(items))
	copy(cp, items)
	return ItemSet{items: cp}
}

// Len returns the number of items.
func (s ItemSet) Len() int { return len(s.items) }

// At returns the i-th item.
func (s ItemSet) At(i int) ScoredItem { return s.items[i] }

// Items returns a copy of the items in order.
func (s ItemSet) Items() []ScoredItem {
	cp := make([]ScoredItem, len(s.items))
	copy(cp, s.items)
	return cp
}

// MarshalJSON encodes the set as a JSON array, always "[]" when empty.
func (s ItemSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// Request carries everything one generation request needs. It replaces any
// form-level state the presentation shell keeps.
type Request struct {
	Theme string   `json:"theme"`
	XAxis AxisSpec `json:"x_axis"`
	YAxis AxisSpec `json:"y_axis"`
}

// DefaultRequest returns the values the input form starts with.
func DefaultRequest() Request {
	return Request{
		Theme: "お酒",
		XAxis: AxisSpec{Name: "価格帯"},
		YAxis: AxisSpec{Name: "味の傾向"},
	}
}

// Normalize returns a copy with surrounding whitespace trimmed from every field.
func (r Request) Normalize() Request {
	return Request{
		Theme: strings.TrimSpace(r.Theme),
		XAxis: AxisSpec{Name: strings.TrimSpace(r.XAxis.Name), Description: strings.TrimSpace(r.XAxis.Description)},
		YAxis: AxisSpec{Name: strings.TrimSpace(r.YAxis.Name), Description: strings.TrimSpace(r.YAxis.Description)},
	}
}

// Validate rejects requests without a theme. Empty axis names are allowed
// and leave that axis unlabeled.
func (r Request) Validate() error {
	if r.Theme == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "theme must not be empty")
	}
	return nil
}
