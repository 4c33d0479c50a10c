// Package cardlookup resolves decklist card names to mana costs through the
// local card cache and Scryfall.
package cardlookup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/deckimport"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
	"github.com/ramonehamilton/mtg-manabase/internal/storage"
)

// DefaultConcurrency bounds parallel cache reads and writes.
const DefaultConcurrency = 8

// CardSource fetches card data from a remote API.
type CardSource interface {
	GetCardByName(ctx context.Context, name string) (*scryfall.Card, error)
	GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
}

// Cache stores previously fetched cards.
type Cache interface {
	Get(ctx context.Context, name string) (*storage.CachedCard, error)
	Put(ctx context.Context, card *storage.CachedCard) error
}

// Recorder receives cache and source round-trip statistics.
type Recorder interface {
	RecordCache(hits, misses int)
	RecordLookup(d time.Duration)
}

// Service resolves card names, cache first.
type Service struct {
	source      CardSource
	cache       Cache
	logger      *zap.Logger
	recorder    Recorder
	concurrency int
}

// NewService creates a lookup service. cache may be nil to always hit the source.
func NewService(source CardSource, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:      source,
		cache:       cache,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
}

// WithRecorder attaches a statistics recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// FromScryfall converts an API card into its cached form.
func FromScryfall(card *scryfall.Card) *storage.CachedCard {
	return &storage.CachedCard{
		Name:          card.Name,
		ManaCost:      card.CastingCost(),
		CMC:           card.CMC,
		TypeLine:      card.TypeLine,
		ColorIdentity: card.ColorIdentity,
		IsLand:        card.IsLand(),
	}
}

// Lookup returns one card by exact name.
func (s *Service) Lookup(ctx context.Context, name string) (*storage.CachedCard, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, name)
		if err != nil {
			s.logger.Warn("Card cache read failed", zap.String("card", name), zap.Error(err))
		} else if cached != nil {
			s.recordCache(1, 0)
			return cached, nil
		}
		s.recordCache(0, 1)
	}

	start := time.Now()
	card, err := s.source.GetCardByName(ctx, name)
	s.recordLookup(time.Since(start))
	if err != nil {
		return nil, err
	}

	cached := FromScryfall(card)
	s.store(ctx, cached)
	return cached, nil
}

// Resolve turns parsed cards into calculator entries. Names the source does
// not know are returned in notFound and left out of the entries. A cost that
// fails to parse is an error naming the card.
func (s *Service) Resolve(ctx context.Context, cards []*deckimport.ParsedCard) ([]manabase.DeckEntry, []string, error) {
	names := uniqueNames(cards)
	found, err := s.fromCache(ctx, names)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, name := range names {
		if _, ok := found[key(name)]; !ok {
			missing = append(missing, name)
		}
	}

	if s.cache != nil {
		s.recordCache(len(names)-len(missing), len(missing))
	}

	var notFound []string
	if len(missing) > 0 {
		s.logger.Debug("Fetching cards", zap.Int("count", len(missing)), zap.Int("cached", len(names)-len(missing)))

		start := time.Now()
		fetched, nf, err := s.source.GetCardsByNames(ctx, missing)
		s.recordLookup(time.Since(start))
		if err != nil {
			return nil, nil, fmt.Errorf("fetch cards: %w", err)
		}
		notFound = nf

		fresh := make([]*storage.CachedCard, 0, len(fetched))
		for i := range fetched {
			c := FromScryfall(&fetched[i])
			fresh = append(fresh, c)
			found[key(c.Name)] = c
			if front, _, ok := strings.Cut(c.Name, " // "); ok {
				found[key(front)] = c
			}
		}
		s.storeAll(ctx, fresh)
	}

	entries := make([]manabase.DeckEntry, 0, len(cards))
	for _, pc := range cards {
		card, ok := found[key(pc.Name)]
		if !ok {
			continue
		}
		if card.IsLand {
			entries = append(entries, manabase.DeckEntry{Name: card.Name, Quantity: pc.Quantity, Land: true, Produces: landColors(card)})
			continue
		}
		entry, err := manabase.NewDeckEntry(card.Name, card.ManaCost, pc.Quantity)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}

	return entries, notFound, nil
}

// ResolveDeck returns entries for every playable card of deck. Cards carrying
// an inline cost are used as-is; the rest are resolved through Resolve.
func (s *Service) ResolveDeck(ctx context.Context, deck *deckimport.ParsedDeck) ([]manabase.DeckEntry, []string, error) {
	entries, unresolved, err := deck.Entries()
	if err != nil {
		return nil, nil, err
	}
	if len(unresolved) == 0 {
		return entries, nil, nil
	}

	resolved, notFound, err := s.Resolve(ctx, unresolved)
	if err != nil {
		return nil, nil, err
	}
	return append(entries, resolved...), notFound, nil
}

// fromCache reads names concurrently. Cache failures are logged and treated as misses.
func (s *Service) fromCache(ctx context.Context, names []string) (map[string]*storage.CachedCard, error) {
	found := make(map[string]*storage.CachedCard, len(names))
	if s.cache == nil {
		return found, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, name := range names {
		name := name
		g.Go(func() error {
			card, err := s.cache.Get(gctx, name)
			if err != nil {
				s.logger.Warn("Card cache read failed", zap.String("card", name), zap.Error(err))
				return nil
			}
			if card == nil {
				return nil
			}
			mu.Lock()
			found[key(name)] = card
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, ctx.Err()
}

func (s *Service) storeAll(ctx context.Context, cards []*storage.CachedCard) {
	if s.cache == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, c := range cards {
		c := c
		g.Go(func() error {
			s.store(gctx, c)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) store(ctx context.Context, card *storage.CachedCard) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, card); err != nil {
		s.logger.Warn("Card cache write failed", zap.String("card", card.Name), zap.Error(err))
	}
}

func (s *Service) recordCache(hits, misses int) {
	if s.recorder != nil {
		s.recorder.RecordCache(hits, misses)
	}
}

func (s *Service) recordLookup(d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordLookup(d)
	}
}

// landColors reads a land's colors from its color identity.
func landColors(card *storage.CachedCard) []manacost.Color {
	var colors []manacost.Color
	for _, s := range card.ColorIdentity {
		if c, ok := manacost.ParseColor(s); ok && c != manacost.Colorless {
			colors = append(colors, c)
		}
	}
	return colors
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func uniqueNames(cards []*deckimport.ParsedCard) []string {
	seen := make(map[string]bool, len(cards))
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		k := key(c.Name)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		names = append(names, strings.TrimSpace(c.Name))
	}
	return names
}
