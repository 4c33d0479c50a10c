package manacost

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Symbol
		wantCMC int
	}{
		{
			name:    "empty cost",
			input:   "",
			want:    nil,
			wantCMC: 0,
		},
		{
			name:  "generic and colored",
			input: "{2}{W}{W}",
			want: []Symbol{
				{Kind: KindGeneric, Amount: 2},
				{Kind: KindColored, Color: White},
				{Kind: KindColored, Color: White},
			},
			wantCMC: 4,
		},
		{
			name:  "hybrid",
			input: "{W/U}{W/U}",
			want: []Symbol{
				{Kind: KindHybrid, Color: White, Alt: Blue},
				{Kind: KindHybrid, Color: White, Alt: Blue},
			},
			wantCMC: 2,
		},
		{
			name:    "phyrexian",
			input:   "{1}{B/P}",
			want:    []Symbol{{Kind: KindGeneric, Amount: 1}, {Kind: KindPhyrexian, Color: Black}},
			wantCMC: 2,
		},
		{
			name:    "hybrid phyrexian",
			input:   "{G/U/P}",
			want:    []Symbol{{Kind: KindHybrid, Color: Green, Alt: Blue, Phyrexian: true}},
			wantCMC: 1,
		},
		{
			name:    "mono hybrid",
			input:   "{2/W}{2/W}{2/W}",
			want:    []Symbol{{Kind: KindMonoHybrid, Color: White, Amount: 2}, {Kind: KindMonoHybrid, Color: White, Amount: 2}, {Kind: KindMonoHybrid, Color: White, Amount: 2}},
			wantCMC: 6,
		},
		{
			name:    "colorless and variable",
			input:   "{X}{C}{C}",
			want:    []Symbol{{Kind: KindVariable, Letter: "X"}, {Kind: KindColorless, Color: Colorless}, {Kind: KindColorless, Color: Colorless}},
			wantCMC: 2,
		},
		{
			name:    "lowercase and spacing",
			input:   " {1} {r} ",
			want:    []Symbol{{Kind: KindGeneric, Amount: 1}, {Kind: KindColored, Color: Red}},
			wantCMC: 2,
		},
		{
			name:    "double digit generic",
			input:   "{15}",
			want:    []Symbol{{Kind: KindGeneric, Amount: 15}},
			wantCMC: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := Parse(tt.input)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, cost.Symbols); diff != "" {
				t.Errorf("Parse(%q) symbols mismatch (-want +got):\n%s", tt.input, diff)
			}
			assert.Equal(t, tt.wantCMC, cost.CMC())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantToken string
		wantPos   int
	}{
		{name: "unknown color", input: "{2}{Q}", wantToken: "{Q}", wantPos: 3},
		{name: "unclosed brace", input: "{2}{W", wantToken: "{W", wantPos: 3},
		{name: "nested brace", input: "{2{W}", wantToken: "{2{W}", wantPos: 0},
		{name: "stray closing brace", input: "{W}}", wantToken: "}", wantPos: 3},
		{name: "negative generic", input: "{-1}", wantToken: "{-1}", wantPos: 0},
		{name: "empty symbol", input: "{W}{}", wantToken: "{}", wantPos: 3},
		{name: "text outside braces", input: "2W", wantToken: "2", wantPos: 0},
		{name: "same color hybrid", input: "{W/W}", wantToken: "{W/W}", wantPos: 0},
		{name: "bad hybrid suffix", input: "{W/U/Q}", wantToken: "{W/U/Q}", wantPos: 0},
		{name: "colorless hybrid", input: "{C/W}", wantToken: "{C/W}", wantPos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedCost))

			var mce *MalformedCostError
			require.True(t, errors.As(err, &mce))
			assert.Equal(t, tt.input, mce.Cost)
			assert.Equal(t, tt.wantToken, mce.Token)
			assert.Equal(t, tt.wantPos, mce.Position)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	first, err := Parse("{3}{U/R}{R}{G/P}")
	require.NoError(t, err)
	second, err := Parse("{3}{U/R}{R}{G/P}")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated parse differs:\n%s", diff)
	}
}

func TestCost_Pips(t *testing.T) {
	tests := []struct {
		input string
		want  map[Color]float64
	}{
		{input: "{W/U}{W/U}", want: map[Color]float64{White: 1, Blue: 1}},
		{input: "{2}{B}{B/P}", want: map[Color]float64{Black: 2}},
		{input: "{4}{C}", want: map[Color]float64{}},
		{input: "{1}{R/G}{G}", want: map[Color]float64{Red: 0.5, Green: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cost := MustParse(tt.input)
			assert.Equal(t, tt.want, cost.Pips())
		})
	}
}

func TestCost_String(t *testing.T) {
	for _, input := range []string{"{2}{W}{W}", "{G/U/P}{X}", "{2/B}{C}", "{R/P}"} {
		assert.Equal(t, input, MustParse(input).String())
	}
}

func TestParseColors(t *testing.T) {
	colors, err := ParseColors("gwu")
	require.NoError(t, err)
	assert.Equal(t, []Color{White, Blue, Green}, colors)

	_, err = ParseColors("WQ")
	assert.Error(t, err)

	_, err = ParseColors("C")
	assert.Error(t, err)
}

func TestGuildName(t *testing.T) {
	assert.Equal(t, "Azorius", GuildName([]Color{Blue, White}))
	assert.Equal(t, "Gruul", GuildName([]Color{Red, Green}))
	assert.Equal(t, "", GuildName([]Color{Red}))
	assert.Equal(t, "", GuildName([]Color{White, Blue, Black}))
}

func TestColor_Text(t *testing.T) {
	b, err := Green.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "G", string(b))

	var c Color
	require.NoError(t, c.UnmarshalText([]byte("blue")))
	assert.Equal(t, Blue, c)
	assert.Error(t, c.UnmarshalText([]byte("purple")))
}
