package deckimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Board names.
const (
	BoardMain      = "main"
	BoardSideboard = "sideboard"
	BoardCommander = "commander"
)

// ErrNoCards is returned when an import contains no card lines.
var ErrNoCards = errors.New("no cards found in import")

// ParsedCard represents a single card in a deck import.
type ParsedCard struct {
	Quantity int
	Name     string
	SetCode  string // Optional, extracted from formats like "4 Lightning Bolt (M21) 123"
	Board    string // main, sideboard or commander

	// ManaCost and Land are known up front for deck files; text lists carry
	// names only and leave Resolved false.
	ManaCost string
	Land     bool
	Resolved bool
	// Produces lists a land's colors; two or more make it a dual land.
	Produces []manacost.Color
}

// ParsedDeck represents a deck parsed from an import string or file.
type ParsedDeck struct {
	Name      string
	Format    string
	Mainboard []*ParsedCard
	Sideboard []*ParsedCard
	Commander []*ParsedCard
	Warnings  []string

	// Optional overrides carried by deck files.
	TotalCards  *int
	TargetLands *int
}

// Playable returns the cards that count toward the mana base: the
// mainboard plus any commander. The sideboard is excluded.
func (d *ParsedDeck) Playable() []*ParsedCard {
	cards := make([]*ParsedCard, 0, len(d.Commander)+len(d.Mainboard))
	cards = append(cards, d.Commander...)
	return append(cards, d.Mainboard...)
}

// Entries converts resolved playable cards into calculator entries and
// lists the names that still need a card lookup.
func (d *ParsedDeck) Entries() ([]manabase.DeckEntry, []*ParsedCard, error) {
	var (
		entries    []manabase.DeckEntry
		unresolved []*ParsedCard
	)
	for _, c := range d.Playable() {
		switch {
		case c.Land:
			entries = append(entries, manabase.DeckEntry{Name: c.Name, Quantity: c.Quantity, Land: true, Produces: c.Produces})
		case c.Resolved:
			e, err := manabase.NewDeckEntry(c.Name, c.ManaCost, c.Quantity)
			if err != nil {
				return nil, nil, err
			}
			entries = append(entries, e)
		default:
			unresolved = append(unresolved, c)
		}
	}
	return entries, unresolved, nil
}

func (d *ParsedDeck) add(c *ParsedCard) {
	switch c.Board {
	case BoardSideboard:
		d.Sideboard = append(d.Sideboard, c)
	case BoardCommander:
		d.Commander = append(d.Commander, c)
	default:
		c.Board = BoardMain
		d.Mainboard = append(d.Mainboard, c)
	}
}

func (d *ParsedDeck) empty() bool {
	return len(d.Mainboard) == 0 && len(d.Sideboard) == 0 && len(d.Commander) == 0
}

var (
	// Arena format: "4 Lightning Bolt (M21) 123" or "4 Lightning Bolt"
	// Group 1: quantity, Group 2: card name, Group 3: set code (optional), Group 4: collector number (optional)
	arenaRegex = regexp.MustCompile(`^(\d+)\s+([^(]+?)(?:\s+\(([A-Za-z0-9]+)\)(?:\s+(\S+))?)?$`)
	// "4x Card Name"
	prefixRegex = regexp.MustCompile(`^(\d+)x\s+(.+)$`)
	// "Card Name x4"
	suffixRegex = regexp.MustCompile(`^(.+?)\s+x(\d+)$`)
)

// Parse reads an Arena export or a plain text card list.
//
// Accepted lines:
//
//	Deck
//	4 Lightning Bolt (M21) 123
//	4x Shock
//	Mountain x20
//	// comment
//	Sideboard
//	2 Duress
//
// "Deck", "Sideboard", "Commander" and "Companion" headers switch boards. In
// an Arena export (first line "Deck") the first blank line also starts the
// sideboard. Lines that match no pattern become warnings.
func Parse(input string) (*ParsedDeck, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty import string")
	}

	deck := &ParsedDeck{}
	lines := strings.Split(input, "\n")
	board := BoardMain
	arena := strings.EqualFold(strings.TrimSpace(lines[0]), "deck")
	blankSeen := false

	for i, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if arena && !blankSeen && board == BoardMain && len(deck.Mainboard) > 0 {
				board = BoardSideboard
				blankSeen = true
			}
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		if header, ok := boardHeader(line); ok {
			board = header
			continue
		}

		card, ok := parseLine(line)
		if !ok {
			deck.Warnings = append(deck.Warnings, fmt.Sprintf("Line %d: Could not parse '%s'", i+1, line))
			continue
		}
		if card.Quantity <= 0 {
			deck.Warnings = append(deck.Warnings, fmt.Sprintf("Line %d: Invalid quantity for '%s'", i+1, card.Name))
			continue
		}
		card.Board = board
		deck.add(card)
	}

	if deck.empty() {
		return nil, ErrNoCards
	}
	return deck, nil
}

func boardHeader(line string) (string, bool) {
	switch strings.ToLower(strings.TrimSuffix(line, ":")) {
	case "deck", "main", "mainboard", "maindeck":
		return BoardMain, true
	case "sideboard", "side", "companion":
		return BoardSideboard, true
	case "commander":
		return BoardCommander, true
	}
	return "", false
}

func parseLine(line string) (*ParsedCard, bool) {
	if m := prefixRegex.FindStringSubmatch(line); m != nil {
		q, err := strconv.Atoi(m[1])
		if err == nil {
			return &ParsedCard{Quantity: q, Name: strings.TrimSpace(m[2])}, true
		}
	}

	if m := arenaRegex.FindStringSubmatch(line); m != nil {
		q, err := strconv.Atoi(m[1])
		if err == nil {
			return &ParsedCard{Quantity: q, Name: strings.TrimSpace(m[2]), SetCode: strings.ToUpper(m[3])}, true
		}
	}

	if m := suffixRegex.FindStringSubmatch(line); m != nil {
		q, err := strconv.Atoi(m[2])
		if err == nil {
			return &ParsedCard{Quantity: q, Name: strings.TrimSpace(m[1])}, true
		}
	}

	return nil, false
}
