package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-manabase/internal/config"
	"github.com/ramonehamilton/mtg-manabase/internal/display"
	"github.com/ramonehamilton/mtg-manabase/internal/export"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cardlookup"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/deckimport"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/deckwatch"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

type manaOptions struct {
	deck       string
	colors     string
	format     string
	cards      int
	lands      int
	algorithm  string
	turn       int
	confidence float64
	handSize   int
	onThePlay  bool
	duals      []string
	export     string
	preview    bool
	watch      bool
	offline    bool
}

func newManaCmd() *cobra.Command {
	opts := &manaOptions{}

	cmd := &cobra.Command{
		Use:   "mana",
		Short: "Calculate the basic land split for a deck",
		Long: `Calculates how many of each basic land to play.

Decks are read from a file: .yaml/.yml/.json files carry costs inline,
anything else is read as an Arena or plain text decklist whose card costs
are fetched from Scryfall and cached locally.

Without a deck, --colors assumes an even pip split across the given colors.

Examples:
  mtg-mana mana --deck azorius.txt --format standard
  mtg-mana mana --deck deck.yaml --algorithm hypergeo --turn 2 --confidence 0.95
  mtg-mana mana --colors WUB --format commander
  mtg-mana mana --colors UBR --dual UB=8
  mtg-mana mana --deck deck.txt --export report.html --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMana(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.deck, "deck", "d", "", "Deck file (.txt, .yaml, .yml, .json)")
	f.StringVarP(&opts.colors, "colors", "c", "", "Deck colors as WUBRG letters when no deck file is given")
	f.StringVarP(&opts.format, "format", "f", "", "Format preset: commander, standard, modern, limited, custom")
	f.IntVar(&opts.cards, "cards", 0, "Override total deck size")
	f.IntVar(&opts.lands, "lands", 0, "Override land count")
	f.StringVarP(&opts.algorithm, "algorithm", "a", "", "Algorithm: simple, cmc, hypergeo")
	f.IntVar(&opts.turn, "turn", 0, "Hypergeometric reference turn")
	f.Float64Var(&opts.confidence, "confidence", 0, "Hypergeometric confidence (0-1)")
	f.IntVar(&opts.handSize, "hand-size", 0, "Opening hand size")
	f.BoolVar(&opts.onThePlay, "on-the-play", false, "Skip the first draw")
	f.StringArrayVar(&opts.duals, "dual", nil, "Dual lands as COLORS=COUNT, e.g. UB=4 (repeatable)")
	f.StringVarP(&opts.export, "export", "o", "", "Write the result to a .json, .csv, .md or .html file")
	f.BoolVar(&opts.preview, "preview", false, "Print the Markdown report instead of the summary")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Recalculate whenever the deck file changes")
	f.BoolVar(&opts.offline, "offline", false, "Never call the card API")

	cmd.MarkFlagsMutuallyExclusive("deck", "colors")
	cmd.MarkFlagsOneRequired("deck", "colors")

	return cmd
}

func runMana(cmd *cobra.Command, opts *manaOptions) error {
	if opts.watch && opts.deck == "" {
		return errors.New("--watch requires --deck")
	}

	calc := &manaRun{
		cmd:  cmd,
		opts: opts,
		cfg:  appConfig,
		out:  cmd.OutOrStdout(),
	}
	defer calc.close()

	if !opts.watch {
		return calc.run(cmd.Context())
	}

	logger.Info("Watching deck file", zap.String("path", opts.deck))
	return deckwatch.Watch(cmd.Context(), opts.deck, deckwatch.Options{Logger: logger}, calc.run)
}

// manaRun holds state shared across recalculations in watch mode.
type manaRun struct {
	cmd  *cobra.Command
	opts *manaOptions
	cfg  *config.Config
	out  io.Writer

	lookup      *cardlookup.Service
	closeLookup func()
}

func (m *manaRun) close() {
	if m.closeLookup != nil {
		m.closeLookup()
	}
}

func (m *manaRun) run(ctx context.Context) error {
	renderer := display.NewRenderer(m.out)

	deck, entries, warnings, err := m.entries(ctx)
	if err != nil {
		return err
	}

	req, err := m.request(deck, entries)
	if err != nil {
		return err
	}

	logger.Debug("Calculating mana base",
		zap.String("format", req.Format.Name),
		zap.Stringer("algorithm", req.Algorithm),
		zap.Int("entries", len(entries)))

	result, err := manabase.Assemble(req)
	if err != nil {
		if !manabase.IsUserError(err) {
			logger.Error("Mana base calculation defect", zap.Error(err))
		}
		return err
	}

	if err := renderer.Warnings(warnings); err != nil {
		return err
	}

	deckName := ""
	if deck != nil {
		deckName = deck.Name
	}
	report := export.NewReport(deckName, result)

	if m.opts.preview {
		rendered, err := export.RenderTerminal(export.Markdown(report))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(m.out, rendered); err != nil {
			return err
		}
	} else if err := renderer.Result(deckName, result); err != nil {
		return err
	}

	if m.opts.export != "" {
		if err := export.WriteFile(m.opts.export, report); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "\nExported to %s\n", m.opts.export)
	}
	return nil
}

// entries loads the deck file or synthesizes an even split for --colors.
func (m *manaRun) entries(ctx context.Context) (*deckimport.ParsedDeck, []manabase.DeckEntry, []string, error) {
	if m.opts.deck == "" {
		entries, err := colorEntries(m.opts.colors)
		return nil, entries, nil, err
	}

	deck, err := deckimport.LoadFile(m.opts.deck)
	if err != nil {
		return nil, nil, nil, err
	}
	warnings := append([]string(nil), deck.Warnings...)

	entries, unresolved, err := deck.Entries()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(unresolved) > 0 {
		if m.opts.offline {
			return nil, nil, nil, fmt.Errorf("%d card(s) have no cost and --offline is set", len(unresolved))
		}
		if m.lookup == nil {
			m.lookup, m.closeLookup, err = openLookup(m.cfg)
			if err != nil {
				return nil, nil, nil, err
			}
		}

		resolved, notFound, err := m.lookup.Resolve(ctx, unresolved)
		if err != nil {
			return nil, nil, nil, err
		}
		entries = append(entries, resolved...)
		for _, name := range notFound {
			warnings = append(warnings, "card not found: "+name)
		}
	}

	return deck, entries, warnings, nil
}

// request merges flags, deck file settings and config defaults, in that order.
func (m *manaRun) request(deck *deckimport.ParsedDeck, entries []manabase.DeckEntry) (manabase.Request, error) {
	flags := m.cmd.Flags()

	format := m.cfg.Calculator.Format
	var totalCards, targetLands *int
	if deck != nil {
		if deck.Format != "" {
			format = deck.Format
		}
		totalCards, targetLands = deck.TotalCards, deck.TargetLands
	}
	if flags.Changed("format") {
		format = m.opts.format
	}
	if flags.Changed("cards") {
		totalCards = &m.opts.cards
	}
	if flags.Changed("lands") {
		targetLands = &m.opts.lands
	}

	algoName := m.cfg.Calculator.Algorithm
	if flags.Changed("algorithm") {
		algoName = m.opts.algorithm
	}
	algo, err := manabase.ParseAlgorithm(algoName)
	if err != nil {
		return manabase.Request{}, err
	}

	hyper := m.cfg.Hypergeometric()
	if flags.Changed("turn") {
		hyper.Turn = m.opts.turn
	}
	if flags.Changed("confidence") {
		hyper.Confidence = m.opts.confidence
	}
	if flags.Changed("hand-size") {
		hyper.HandSize = m.opts.handSize
	}
	if flags.Changed("on-the-play") {
		hyper.OnThePlay = m.opts.onThePlay
	}

	duals, err := parseDuals(m.opts.duals)
	if err != nil {
		return manabase.Request{}, err
	}

	return manabase.Request{
		Format: manabase.FormatRequest{
			Name:        format,
			TotalCards:  totalCards,
			TargetLands: targetLands,
		},
		Entries:        entries,
		Algorithm:      algo,
		Duals:          duals,
		Hypergeometric: hyper,
	}, nil
}

// parseDuals reads --dual values of the form COLORS=COUNT.
func parseDuals(values []string) ([]manabase.DualLand, error) {
	duals := make([]manabase.DualLand, 0, len(values))
	for _, v := range values {
		colorsPart, countPart, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("--dual %q: want COLORS=COUNT", v)
		}
		colors, err := manacost.ParseColors(colorsPart)
		if err != nil {
			return nil, fmt.Errorf("--dual %q: %w", v, err)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countPart))
		if err != nil {
			return nil, fmt.Errorf("--dual %q: bad count: %w", v, err)
		}

		name := manacost.GuildName(colors)
		if name == "" {
			name = strings.ToUpper(strings.TrimSpace(colorsPart))
		}
		duals = append(duals, manabase.DualLand{Name: name + " duals", Colors: colors, Count: count})
	}
	return duals, nil
}

// colorEntries gives every color one single-pip spell so pips split evenly.
func colorEntries(colors string) ([]manabase.DeckEntry, error) {
	parsed, err := manacost.ParseColors(strings.TrimSpace(colors))
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, errors.New("--colors needs at least one of W, U, B, R, G")
	}

	entries := make([]manabase.DeckEntry, 0, len(parsed))
	for _, c := range parsed {
		entry, err := manabase.NewDeckEntry(c.Name()+" spells", "{"+c.Symbol()+"}", 1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
