package manabase

import (
	"errors"
	"testing"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name      string
		wantCards int
		wantLands int
		want      Format
	}{
		{"Commander", 100, 38, Commander},
		{"edh", 100, 38, Commander},
		{"standard", 60, 24, Standard},
		{"MODERN", 60, 24, Modern},
		{"draft", 40, 17, Limited},
		{"sealed", 40, 17, Limited},
		{"custom", 60, 24, Custom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(tt.name)
			if err != nil {
				t.Fatalf("ResolveFormat(%q) error: %v", tt.name, err)
			}
			if got.Format != tt.want || got.TotalCards != tt.wantCards || got.TargetLands != tt.wantLands {
				t.Errorf("ResolveFormat(%q) = %+v, want %s %d/%d", tt.name, got, tt.want, tt.wantCards, tt.wantLands)
			}
		})
	}
}

func TestResolveFormat_Unknown(t *testing.T) {
	_, err := ResolveFormat("pauper")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestResolve_Overrides(t *testing.T) {
	lands := 16
	got, err := Resolve(FormatRequest{Name: "limited", TargetLands: &lands})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.TotalCards != 40 || got.TargetLands != 16 {
		t.Errorf("got %+v, want 40/16", got)
	}

	cards, lands := 80, 30
	got, err = Resolve(FormatRequest{TotalCards: &cards, TargetLands: &lands})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Format != Custom {
		t.Errorf("expected Custom format, got %s", got.Format)
	}

	if _, err := Resolve(FormatRequest{TotalCards: &cards}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat without a name, got %v", err)
	}
}

func TestCustomFormat_InvalidTarget(t *testing.T) {
	tests := []struct {
		name  string
		cards int
		lands int
	}{
		{"negative lands", 60, -1},
		{"lands exceed cards", 40, 41},
		{"zero cards", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CustomFormat(tt.cards, tt.lands)
			if !errors.Is(err, ErrInvalidTarget) {
				t.Fatalf("expected ErrInvalidTarget, got %v", err)
			}
			var ite *InvalidTargetError
			if !errors.As(err, &ite) {
				t.Fatalf("expected *InvalidTargetError, got %T", err)
			}
			if ite.TotalCards != tt.cards || ite.TargetLands != tt.lands {
				t.Errorf("error carries %d/%d, want %d/%d", ite.TotalCards, ite.TargetLands, tt.cards, tt.lands)
			}
		})
	}
}

func TestCustomFormat_Boundaries(t *testing.T) {
	if _, err := CustomFormat(60, 0); err != nil {
		t.Errorf("zero lands should be valid: %v", err)
	}
	if _, err := CustomFormat(40, 40); err != nil {
		t.Errorf("all-land deck should be valid: %v", err)
	}
}

func TestFormatTarget_InRecommendedRange(t *testing.T) {
	target, _ := ResolveFormat("limited")
	if !target.InRecommendedRange() {
		t.Error("default limited target should be in range")
	}
	target.TargetLands = 20
	if target.InRecommendedRange() {
		t.Error("20 lands in limited should be out of range")
	}
}

func TestFormat_Text(t *testing.T) {
	b, _ := Commander.MarshalText()
	if string(b) != "commander" {
		t.Errorf("MarshalText = %q", b)
	}
	var f Format
	if err := f.UnmarshalText([]byte("Modern")); err != nil || f != Modern {
		t.Errorf("UnmarshalText = %v, %v", f, err)
	}
}
