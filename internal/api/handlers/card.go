package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-manabase/internal/api/response"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cardlookup"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/scryfall"
)

// CardHandler handles card lookups.
type CardHandler struct {
	lookup *cardlookup.Service
}

// NewCardHandler creates a new CardHandler. lookup may be nil when the card API is disabled.
func NewCardHandler(lookup *cardlookup.Service) *CardHandler {
	return &CardHandler{lookup: lookup}
}

// GetCardByName returns the cached or fetched card with the exact name.
func (h *CardHandler) GetCardByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}
	if h.lookup == nil {
		response.ServiceUnavailable(w, errLookupDisabled)
		return
	}

	card, err := h.lookup.Lookup(r.Context(), name)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.NotFound(w, errors.New("card not found"))
			return
		}
		response.BadGateway(w, err)
		return
	}

	response.Success(w, card)
}
