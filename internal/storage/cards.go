package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultCardTTL is how long a cached card stays fresh.
const DefaultCardTTL = 24 * time.Hour

// CachedCard is the slice of card data a mana base calculation needs.
type CachedCard struct {
	Name          string
	ManaCost      string
	CMC           float64
	TypeLine      string
	ColorIdentity []string
	IsLand        bool
	CachedAt      time.Time
}

// CardCache stores card lookups keyed by case-insensitive name.
type CardCache struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewCardCache returns a cache over db. A non-positive ttl selects DefaultCardTTL.
func NewCardCache(db *DB, ttl time.Duration) *CardCache {
	if ttl <= 0 {
		ttl = DefaultCardTTL
	}
	return &CardCache{db: db, ttl: ttl, now: time.Now}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// frontFace returns the first face of a multi-faced name ("Fire // Ice" → "Fire").
func frontFace(name string) (string, bool) {
	front, _, ok := strings.Cut(name, "//")
	front = strings.TrimSpace(front)
	return front, ok && front != ""
}

// Get returns the cached card, or nil when it is missing or expired. The front
// face name of a multi-faced card finds the full card.
func (c *CardCache) Get(ctx context.Context, name string) (*CachedCard, error) {
	query := `
		SELECT name, mana_cost, cmc, type_line, color_identity, is_land, cached_at
		FROM card_cache
		WHERE name_key = COALESCE((SELECT name_key FROM card_alias WHERE alias_key = ?1), ?1)
		  AND cached_at > ?2
	`

	var (
		card     CachedCard
		identity string
		cachedAt int64
	)
	cutoff := c.now().Add(-c.ttl).Unix()
	err := c.db.Conn().QueryRowContext(ctx, query, nameKey(name), cutoff).Scan(
		&card.Name, &card.ManaCost, &card.CMC, &card.TypeLine, &identity, &card.IsLand, &cachedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached card: %w", err)
	}

	if identity != "" {
		card.ColorIdentity = strings.Split(identity, ",")
	}
	card.CachedAt = time.Unix(cachedAt, 0)
	return &card, nil
}

// Put saves or refreshes a card. Multi-faced cards are also reachable by their
// front face name.
func (c *CardCache) Put(ctx context.Context, card *CachedCard) error {
	query := `
		INSERT INTO card_cache (
			name_key, name, mana_cost, cmc, type_line, color_identity, is_land, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET
			name = excluded.name,
			mana_cost = excluded.mana_cost,
			cmc = excluded.cmc,
			type_line = excluded.type_line,
			color_identity = excluded.color_identity,
			is_land = excluded.is_land,
			cached_at = excluded.cached_at
	`

	tx, err := c.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin card cache write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	key := nameKey(card.Name)
	_, err = tx.ExecContext(ctx, query,
		key, card.Name, card.ManaCost, card.CMC, card.TypeLine,
		strings.Join(card.ColorIdentity, ","), card.IsLand, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache card %q: %w", card.Name, err)
	}

	if front, ok := frontFace(card.Name); ok {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO card_alias (alias_key, name_key) VALUES (?, ?)
			ON CONFLICT(alias_key) DO UPDATE SET name_key = excluded.name_key
		`, nameKey(front), key)
		if err != nil {
			return fmt.Errorf("failed to alias card %q: %w", card.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to cache card %q: %w", card.Name, err)
	}
	return nil
}

// Delete removes one card.
func (c *CardCache) Delete(ctx context.Context, name string) error {
	key := nameKey(name)
	if _, err := c.db.Conn().ExecContext(ctx, `DELETE FROM card_alias WHERE name_key = ? OR alias_key = ?`, key, key); err != nil {
		return fmt.Errorf("failed to delete card alias: %w", err)
	}
	if _, err := c.db.Conn().ExecContext(ctx, `DELETE FROM card_cache WHERE name_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cached card: %w", err)
	}
	return nil
}

// Clear removes every card and returns how many were dropped.
func (c *CardCache) Clear(ctx context.Context) (int64, error) {
	if _, err := c.db.Conn().ExecContext(ctx, `DELETE FROM card_alias`); err != nil {
		return 0, fmt.Errorf("failed to clear card aliases: %w", err)
	}
	res, err := c.db.Conn().ExecContext(ctx, `DELETE FROM card_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear card cache: %w", err)
	}
	return res.RowsAffected()
}

// PurgeExpired removes cards older than the TTL and returns how many were dropped.
func (c *CardCache) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.Conn().ExecContext(ctx, `DELETE FROM card_cache WHERE cached_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cards: %w", err)
	}
	if _, err := c.db.Conn().ExecContext(ctx,
		`DELETE FROM card_alias WHERE name_key NOT IN (SELECT name_key FROM card_cache)`); err != nil {
		return 0, fmt.Errorf("failed to purge card aliases: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of cached cards, fresh or not.
func (c *CardCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM card_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached cards: %w", err)
	}
	return n, nil
}
