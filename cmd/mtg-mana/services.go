package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-manabase/internal/config"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cardlookup"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/mtgio"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/mtg-manabase/internal/storage"
)

// openCardCache opens the SQLite card cache named by cfg.
func openCardCache(cfg *config.Config) (*storage.CardCache, func(), error) {
	path, err := cfg.CachePath()
	if err != nil {
		return nil, nil, err
	}
	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.Open(storage.DefaultConfig(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open card cache: %w", err)
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Error closing card cache", zap.Error(err))
		}
	}
	return storage.NewCardCache(db, ttl), closeFn, nil
}

// newScryfallClient builds the API client from cfg.
func newScryfallClient(cfg *config.Config) (*scryfall.Client, error) {
	interval, err := cfg.GetRateInterval()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.GetScryfallTimeout()
	if err != nil {
		return nil, err
	}
	return scryfall.NewClient(
		scryfall.WithBaseURL(cfg.Scryfall.BaseURL),
		scryfall.WithRateInterval(interval),
		scryfall.WithTimeout(timeout),
		scryfall.WithUserAgent(cfg.Scryfall.UserAgent),
	), nil
}

// newCardSource returns Scryfall, backed by magicthegathering.io when the
// fallback is enabled.
func newCardSource(cfg *config.Config) (cardlookup.CardSource, error) {
	client, err := newScryfallClient(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Fallback.Enabled {
		return client, nil
	}

	timeout, err := cfg.GetScryfallTimeout()
	if err != nil {
		return nil, err
	}
	secondary := mtgio.NewClient(
		mtgio.WithBaseURL(cfg.Fallback.BaseURL),
		mtgio.WithTimeout(timeout),
		mtgio.WithUserAgent(cfg.Scryfall.UserAgent),
	)
	return cardlookup.NewFallbackSource(client, secondary, logger), nil
}

// openLookup wires the card source to the card cache. The returned
// close function is always safe to call.
func openLookup(cfg *config.Config) (*cardlookup.Service, func(), error) {
	client, err := newCardSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Cache.Enabled {
		return cardlookup.NewService(client, nil, logger), func() {}, nil
	}

	cache, closeFn, err := openCardCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cardlookup.NewService(client, cache, logger), closeFn, nil
}
