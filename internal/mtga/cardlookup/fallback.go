package cardlookup

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/scryfall"
)

// FallbackSource asks a secondary source when the primary fails or does not
// know a card.
type FallbackSource struct {
	primary   CardSource
	secondary CardSource
	logger    *zap.Logger
}

// NewFallbackSource wraps primary. A nil secondary returns primary unchanged.
func NewFallbackSource(primary, secondary CardSource, logger *zap.Logger) CardSource {
	if secondary == nil {
		return primary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackSource{primary: primary, secondary: secondary, logger: logger}
}

// GetCardByName implements CardSource. When both sources fail the primary's
// error is returned unless the secondary failed for another reason than a
// missing card.
func (f *FallbackSource) GetCardByName(ctx context.Context, name string) (*scryfall.Card, error) {
	card, err := f.primary.GetCardByName(ctx, name)
	if err == nil {
		return card, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if !scryfall.IsNotFound(err) {
		f.logger.Warn("Primary card source failed, trying fallback", zap.String("card", name), zap.Error(err))
	}

	card, fbErr := f.secondary.GetCardByName(ctx, name)
	if fbErr == nil {
		return card, nil
	}
	if scryfall.IsNotFound(fbErr) {
		return nil, err
	}
	return nil, errors.Join(err, fbErr)
}

// GetCardsByNames implements CardSource. A failed primary batch is retried
// whole on the secondary; names the primary did not find are looked up there.
func (f *FallbackSource) GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error) {
	cards, notFound, err := f.primary.GetCardsByNames(ctx, names)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, err
		}
		f.logger.Warn("Primary card source failed, trying fallback", zap.Int("count", len(names)), zap.Error(err))
		fbCards, fbNotFound, fbErr := f.secondary.GetCardsByNames(ctx, names)
		if fbErr != nil {
			return nil, nil, errors.Join(err, fbErr)
		}
		return fbCards, fbNotFound, nil
	}
	if len(notFound) == 0 {
		return cards, nil, nil
	}

	extra, stillMissing, fbErr := f.secondary.GetCardsByNames(ctx, notFound)
	if fbErr != nil {
		f.logger.Warn("Fallback card source failed", zap.Int("count", len(notFound)), zap.Error(fbErr))
		return cards, notFound, nil
	}
	if len(extra) > 0 {
		f.logger.Debug("Fallback source found cards", zap.Int("count", len(extra)))
	}
	return append(cards, extra...), stillMissing, nil
}
