package manacost

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCost is matched by every *MalformedCostError.
var ErrMalformedCost = errors.New("malformed mana cost")

// MalformedCostError reports the offending token of an unparseable cost.
type MalformedCostError struct {
	Cost     string // Full input
	Token    string // Offending token, including braces when present
	Position int    // Byte offset of the token in Cost
	Reason   string
}

func (e *MalformedCostError) Error() string {
	return fmt.Sprintf("malformed mana cost %q: %s: token %q at position %d", e.Cost, e.Reason, e.Token, e.Position)
}

// Is lets errors.Is match ErrMalformedCost.
func (e *MalformedCostError) Is(target error) bool {
	return target == ErrMalformedCost
}

// Parse tokenizes a mana cost written in brace notation.
// The empty string is a valid cost with no symbols.
func Parse(cost string) (Cost, error) {
	var symbols []Symbol

	for i := 0; i < len(cost); i++ {
		ch := cost[i]
		switch {
		case ch == ' ' || ch == '\t':
			continue
		case ch == '}':
			return Cost{}, malformed(cost, "}", i, "closing brace without opening brace")
		case ch != '{':
			return Cost{}, malformed(cost, string(ch), i, "unexpected character outside braces")
		}

		end := strings.IndexAny(cost[i+1:], "{}")
		if end < 0 || cost[i+1+end] == '{' {
			return Cost{}, malformed(cost, cost[i:], i, "unbalanced braces")
		}
		end += i + 1

		token := cost[i : end+1]
		sym, err := parseToken(cost[i+1 : end])
		if err != nil {
			return Cost{}, malformed(cost, token, i, err.Error())
		}
		symbols = append(symbols, sym)
		i = end
	}

	return Cost{Symbols: symbols}, nil
}

// MustParse is Parse for constant costs; it panics on error.
func MustParse(cost string) Cost {
	c, err := Parse(cost)
	if err != nil {
		panic(err)
	}
	return c
}

func malformed(cost, token string, pos int, reason string) *MalformedCostError {
	return &MalformedCostError{Cost: cost, Token: token, Position: pos, Reason: reason}
}

func parseToken(body string) (Symbol, error) {
	body = strings.ToUpper(strings.TrimSpace(body))
	if body == "" {
		return Symbol{}, errors.New("empty symbol")
	}

	if !strings.Contains(body, "/") {
		return parseSingle(body)
	}

	parts := strings.Split(body, "/")
	switch len(parts) {
	case 2:
		first, second := parts[0], parts[1]
		if second == "P" {
			c, err := pipColor(first)
			if err != nil {
				return Symbol{}, err
			}
			return Symbol{Kind: KindPhyrexian, Color: c}, nil
		}
		if isDigits(first) {
			amount, err := parseGeneric(first)
			if err != nil {
				return Symbol{}, err
			}
			c, err := pipColor(second)
			if err != nil {
				return Symbol{}, err
			}
			return Symbol{Kind: KindMonoHybrid, Color: c, Amount: amount}, nil
		}
		return parseHybrid(first, second, false)
	case 3:
		if parts[2] != "P" {
			return Symbol{}, fmt.Errorf("unrecognized hybrid suffix %q", parts[2])
		}
		return parseHybrid(parts[0], parts[1], true)
	default:
		return Symbol{}, errors.New("too many hybrid components")
	}
}

func parseSingle(body string) (Symbol, error) {
	if isDigits(body) {
		amount, err := parseGeneric(body)
		if err != nil {
			return Symbol{}, err
		}
		return Symbol{Kind: KindGeneric, Amount: amount}, nil
	}

	switch body {
	case "X", "Y", "Z":
		return Symbol{Kind: KindVariable, Letter: body}, nil
	case "C":
		return Symbol{Kind: KindColorless, Color: Colorless}, nil
	}

	if strings.HasPrefix(body, "-") {
		return Symbol{}, errors.New("negative generic value")
	}

	c, err := pipColor(body)
	if err != nil {
		return Symbol{}, err
	}
	return Symbol{Kind: KindColored, Color: c}, nil
}

func parseHybrid(first, second string, phyrexian bool) (Symbol, error) {
	a, err := pipColor(first)
	if err != nil {
		return Symbol{}, err
	}
	b, err := pipColor(second)
	if err != nil {
		return Symbol{}, err
	}
	if a == b {
		return Symbol{}, fmt.Errorf("hybrid repeats color %s", a.Symbol())
	}
	return Symbol{Kind: KindHybrid, Color: a, Alt: b, Phyrexian: phyrexian}, nil
}

// pipColor accepts only the five colors; {C} is handled separately.
func pipColor(s string) (Color, error) {
	if len(s) == 1 {
		if c, ok := ParseColor(s); ok && c != Colorless {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unrecognized color %q", s)
}

func parseGeneric(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid generic value %q", s)
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
