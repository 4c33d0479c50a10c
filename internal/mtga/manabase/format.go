package manabase

import (
	"fmt"
	"strings"
)

// Format is a deck format preset.
type Format int

const (
	Commander Format = iota
	Standard
	Modern
	Limited
	Custom
)

// Formats lists every preset in display order.
var Formats = []Format{Commander, Standard, Modern, Limited, Custom}

// Name returns the display name.
func (f Format) Name() string {
	switch f {
	case Commander:
		return "Commander"
	case Standard:
		return "Standard"
	case Modern:
		return "Modern"
	case Limited:
		return "Limited"
	case Custom:
		return "Custom"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return f.Name()
}

// Description is a one-line summary of the preset.
func (f Format) Description() string {
	switch f {
	case Commander:
		return "100-card singleton with a commander"
	case Standard:
		return "60-card constructed with recent sets"
	case Modern:
		return "60-card constructed with 8th Edition onwards"
	case Limited:
		return "40-card draft or sealed deck"
	default:
		return "User-defined deck size and land count"
	}
}

// DefaultCards is the preset deck size.
func (f Format) DefaultCards() int {
	switch f {
	case Commander:
		return 100
	case Limited:
		return 40
	default:
		return 60
	}
}

// DefaultLands is the preset land count.
func (f Format) DefaultLands() int {
	switch f {
	case Commander:
		return 38
	case Limited:
		return 17
	default:
		return 24
	}
}

// RecommendedLandRange is the usual inclusive land range for the preset.
func (f Format) RecommendedLandRange() (low, high int) {
	switch f {
	case Commander:
		return 36, 40
	case Standard, Modern:
		return 20, 26
	case Limited:
		return 16, 18
	default:
		return 20, 30
	}
}

// MarshalText encodes the format as its lowercase name.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(f.Name())), nil
}

// UnmarshalText decodes a format name.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFormat resolves a preset name case-insensitively. "edh", "draft" and
// "sealed" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "commander", "edh":
		return Commander, nil
	case "standard":
		return Standard, nil
	case "modern":
		return Modern, nil
	case "limited", "draft", "sealed":
		return Limited, nil
	case "custom":
		return Custom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatTarget is the resolved deck size and land budget.
type FormatTarget struct {
	Format      Format `json:"format"`
	TotalCards  int    `json:"total_cards"`
	TargetLands int    `json:"target_lands"`
}

// Validate checks 0 <= TargetLands <= TotalCards and TotalCards > 0.
func (t FormatTarget) Validate() error {
	switch {
	case t.TotalCards <= 0:
		return &InvalidTargetError{TotalCards: t.TotalCards, TargetLands: t.TargetLands, Reason: "total cards must be positive"}
	case t.TargetLands < 0:
		return &InvalidTargetError{TotalCards: t.TotalCards, TargetLands: t.TargetLands, Reason: "target lands cannot be negative"}
	case t.TargetLands > t.TotalCards:
		return &InvalidTargetError{TotalCards: t.TotalCards, TargetLands: t.TargetLands, Reason: "target lands exceed total cards"}
	}
	return nil
}

// InRecommendedRange reports whether TargetLands sits inside the preset's usual range.
func (t FormatTarget) InRecommendedRange() bool {
	low, high := t.Format.RecommendedLandRange()
	return t.TargetLands >= low && t.TargetLands <= high
}

// FormatRequest names a preset and optionally overrides its deck size or land count.
// An empty Name with both overrides set resolves to Custom.
type FormatRequest struct {
	Name        string
	TotalCards  *int
	TargetLands *int
}

// ResolveFormat maps a preset name to its FormatTarget.
func ResolveFormat(name string) (FormatTarget, error) {
	return Resolve(FormatRequest{Name: name})
}

// CustomFormat builds a Custom target from explicit values.
func CustomFormat(totalCards, targetLands int) (FormatTarget, error) {
	return Resolve(FormatRequest{Name: "custom", TotalCards: &totalCards, TargetLands: &targetLands})
}

// Resolve applies overrides to a preset and validates the result.
func Resolve(req FormatRequest) (FormatTarget, error) {
	var format Format
	if strings.TrimSpace(req.Name) == "" {
		if req.TotalCards == nil || req.TargetLands == nil {
			return FormatTarget{}, fmt.Errorf("%w: a format name or both total cards and target lands are required", ErrUnknownFormat)
		}
		format = Custom
	} else {
		f, err := ParseFormat(req.Name)
		if err != nil {
			return FormatTarget{}, err
		}
		format = f
	}

	target := FormatTarget{
		Format:      format,
		TotalCards:  format.DefaultCards(),
		TargetLands: format.DefaultLands(),
	}
	if req.TotalCards != nil {
		target.TotalCards = *req.TotalCards
	}
	if req.TargetLands != nil {
		target.TargetLands = *req.TargetLands
	}

	if err := target.Validate(); err != nil {
		return FormatTarget{}, err
	}
	return target, nil
}
