package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxBatchSize is the maximum number of cards per batch request (Scryfall limit is 75).
const MaxBatchSize = 75

// CardIdentifier represents a card identifier for the /cards/collection endpoint.
type CardIdentifier struct {
	ID   string `json:"id,omitempty"`   // Scryfall ID
	Name string `json:"name,omitempty"` // Card name
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames fetches multiple cards by their names using the batch
// /cards/collection endpoint, 75 names per request. Names Scryfall could not
// match are returned separately.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	var allCards []Card
	var allNotFound []string

	for i := 0; i < len(names); i += MaxBatchSize {
		end := min(i+MaxBatchSize, len(names))

		cards, notFound, err := c.fetchCardsByNamesBatch(ctx, names[i:end])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch batch %d-%d: %w", i, end, err)
		}
		allCards = append(allCards, cards...)
		allNotFound = append(allNotFound, notFound...)
	}

	return allCards, allNotFound, nil
}

// fetchCardsByNamesBatch fetches a single batch of cards by name from /cards/collection.
func (c *Client) fetchCardsByNamesBatch(ctx context.Context, names []string) ([]Card, []string, error) {
	identifiers := make([]CardIdentifier, len(names))
	for i, name := range names {
		identifiers[i] = CardIdentifier{Name: name}
	}

	payload, err := json.Marshal(CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp CollectionResponse
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/cards/collection", payload, &resp); err != nil {
		return nil, nil, err
	}

	notFound := make([]string, 0, len(resp.NotFound))
	for _, id := range resp.NotFound {
		if id.Name != "" {
			notFound = append(notFound, id.Name)
		}
	}

	return resp.Data, notFound, nil
}
