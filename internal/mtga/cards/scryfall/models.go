package scryfall

import (
	"errors"
	"fmt"
	"strings"
)

// Card represents a Magic card from Scryfall, reduced to the fields a mana
// base calculation reads.
type Card struct {
	ID       string `json:"id"`
	OracleID string `json:"oracle_id"`

	Name          string   `json:"name"`
	Layout        string   `json:"layout"`
	ManaCost      string   `json:"mana_cost,omitempty"`
	CMC           float64  `json:"cmc"`
	TypeLine      string   `json:"type_line"`
	Colors        []string `json:"colors,omitempty"`
	ColorIdentity []string `json:"color_identity"`
	ProducedMana  []string `json:"produced_mana,omitempty"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name     string   `json:"name"`
	ManaCost string   `json:"mana_cost,omitempty"`
	TypeLine string   `json:"type_line"`
	Colors   []string `json:"colors,omitempty"`
}

// CastingCost returns the mana cost of the card's front face. Split and
// adventure cards carry every face in the top-level cost ("{1}{R} // {1}{U}");
// transforming cards carry none. Both use the first face.
func (c *Card) CastingCost() string {
	if c.ManaCost != "" && !strings.Contains(c.ManaCost, "//") {
		return c.ManaCost
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].ManaCost
	}
	front, _, _ := strings.Cut(c.ManaCost, "//")
	return strings.TrimSpace(front)
}

// IsLand reports whether the card's front face is a land.
func (c *Card) IsLand() bool {
	typeLine := c.TypeLine
	if len(c.CardFaces) > 0 && c.CardFaces[0].TypeLine != "" {
		typeLine = c.CardFaces[0].TypeLine
	}
	front, _, _ := strings.Cut(typeLine, "//")
	return strings.Contains(front, "Land")
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
