package deckimport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// deckFile is the YAML/JSON deck layout:
//
//	name: Azorius Control
//	format: standard
//	cards:
//	  - name: Absorb
//	    cost: "{W}{U}{U}"
//	    quantity: 4
//	  - name: Plains
//	    land: true
//	    quantity: 10
//	  - name: Hallowed Fountain
//	    land: true
//	    produces: WU
//	    quantity: 4
type deckFile struct {
	Name        string     `yaml:"name" json:"name"`
	Format      string     `yaml:"format" json:"format"`
	TotalCards  *int       `yaml:"total_cards" json:"total_cards"`
	TargetLands *int       `yaml:"target_lands" json:"target_lands"`
	Cards       []fileCard `yaml:"cards" json:"cards"`
}

type fileCard struct {
	Name     string  `yaml:"name" json:"name"`
	Cost     *string `yaml:"cost" json:"cost"`
	Quantity int     `yaml:"quantity" json:"quantity"`
	Land     bool    `yaml:"land" json:"land"`
	Produces string  `yaml:"produces" json:"produces"`
	Board    string  `yaml:"board" json:"board"`
}

// LoadFile reads a deck from path. ".yaml", ".yml" and ".json" files carry
// costs inline; anything else is parsed as a text list.
func LoadFile(path string) (*ParsedDeck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}

	var df deckFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &df); err != nil {
			return nil, fmt.Errorf("parse deck file %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &df); err != nil {
			return nil, fmt.Errorf("parse deck file %s: %w", path, err)
		}
	default:
		deck, err := Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse deck file %s: %w", path, err)
		}
		if deck.Name == "" {
			deck.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return deck, nil
	}

	return df.toDeck()
}

func (df *deckFile) toDeck() (*ParsedDeck, error) {
	deck := &ParsedDeck{
		Name:        df.Name,
		Format:      df.Format,
		TotalCards:  df.TotalCards,
		TargetLands: df.TargetLands,
	}

	for i, fc := range df.Cards {
		name := strings.TrimSpace(fc.Name)
		if name == "" {
			return nil, fmt.Errorf("card %d: missing name", i+1)
		}
		if fc.Quantity < 0 {
			return nil, fmt.Errorf("card %q: negative quantity %d", name, fc.Quantity)
		}

		card := &ParsedCard{
			Quantity: fc.Quantity,
			Name:     name,
			Board:    strings.ToLower(fc.Board),
			Land:     fc.Land,
		}
		if card.Quantity == 0 {
			card.Quantity = 1
		}
		if fc.Produces != "" {
			if !fc.Land {
				return nil, fmt.Errorf("card %q: produces is only valid on lands", name)
			}
			colors, err := manacost.ParseColors(fc.Produces)
			if err != nil {
				return nil, fmt.Errorf("card %q: %w", name, err)
			}
			card.Produces = colors
		}
		if fc.Cost != nil {
			card.ManaCost = *fc.Cost
			card.Resolved = true
		}
		deck.add(card)
	}

	if deck.empty() {
		return nil, ErrNoCards
	}
	return deck, nil
}
