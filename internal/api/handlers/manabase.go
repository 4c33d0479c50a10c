package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-manabase/internal/api/response"
	"github.com/ramonehamilton/mtg-manabase/internal/api/validation"
	"github.com/ramonehamilton/mtg-manabase/internal/export"
	"github.com/ramonehamilton/mtg-manabase/internal/metrics"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cardlookup"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/deckimport"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// maxBodyBytes caps request bodies; a 250-card decklist is well under this.
const maxBodyBytes = 1 << 20

// CardInput is one card of a calculation request.
type CardInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Cost     string `json:"cost" validate:"max=100"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=250"`
	Land     bool   `json:"land"`
	// Produces marks a land as a dual, e.g. "UB".
	Produces string `json:"produces,omitempty" validate:"omitempty,max=5"`
}

// ManabaseRequest is the body of POST /api/v1/manabase. Either Cards or
// Decklist must be set; decklist cards without costs are resolved by name.
// Omitted hypergeometric fields take the defaults; a present zero is kept.
type ManabaseRequest struct {
	DeckName    string      `json:"deck_name,omitempty" validate:"max=200"`
	Format      string      `json:"format" validate:"max=50"`
	TotalCards  *int        `json:"total_cards,omitempty" validate:"omitempty,gt=0,lte=1000"`
	TargetLands *int        `json:"target_lands,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Algorithm   string      `json:"algorithm" validate:"max=50"`
	Turn        *int        `json:"turn,omitempty" validate:"omitempty,gte=1,lte=30"`
	Confidence  *float64    `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
	HandSize    *int        `json:"hand_size,omitempty" validate:"omitempty,gte=0,lte=15"`
	OnThePlay   bool        `json:"on_the_play"`
	Cards       []CardInput `json:"cards" validate:"required_without=Decklist,max=500,dive"`
	Decklist    string      `json:"decklist,omitempty" validate:"max=100000"`
}

// ManabaseResponse is a report plus any names the card lookup could not find.
type ManabaseResponse struct {
	*export.Report
	Unresolved []string `json:"unresolved,omitempty"`
}

// ManabaseHandler serves mana base calculations.
type ManabaseHandler struct {
	lookup   *cardlookup.Service
	metrics  *metrics.Metrics
	validate *validation.Validator
	logger   *zap.Logger
}

// NewManabaseHandler creates a ManabaseHandler. lookup and m may be nil.
func NewManabaseHandler(lookup *cardlookup.Service, m *metrics.Metrics, logger *zap.Logger) *ManabaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManabaseHandler{
		lookup:   lookup,
		metrics:  m,
		validate: validation.New(),
		logger:   logger,
	}
}

// Calculate runs one calculation.
func (h *ManabaseHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req ManabaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	algo, err := manabase.ParseAlgorithm(req.Algorithm)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	entries, unresolved, err := h.entries(r, &req)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	start := time.Now()
	result, err := manabase.Assemble(manabase.Request{
		Format: manabase.FormatRequest{
			Name:        req.Format,
			TotalCards:  req.TotalCards,
			TargetLands: req.TargetLands,
		},
		Entries:        entries,
		Algorithm:      algo,
		Hypergeometric: hypergeometricConfig(&req),
	})
	if h.metrics != nil {
		h.metrics.RecordCalculation(algo.String(), time.Since(start), err)
	}
	if err != nil {
		writeCalculationError(w, h.logger, err)
		return
	}

	response.Success(w, ManabaseResponse{
		Report:     export.NewReport(req.DeckName, result),
		Unresolved: unresolved,
	})
}

// entries builds calculator entries from inline cards or a decklist.
func (h *ManabaseHandler) entries(r *http.Request, req *ManabaseRequest) ([]manabase.DeckEntry, []string, error) {
	deck := &deckimport.ParsedDeck{}
	if req.Decklist != "" {
		parsed, err := deckimport.Parse(req.Decklist)
		if err != nil {
			return nil, nil, &userError{err}
		}
		deck = parsed
		if req.DeckName == "" {
			req.DeckName = parsed.Name
		}
	}

	for _, c := range req.Cards {
		card := &deckimport.ParsedCard{
			Quantity: c.Quantity,
			Name:     c.Name,
			ManaCost: c.Cost,
			Land:     c.Land,
			Resolved: true,
		}
		if c.Produces != "" {
			colors, err := manacost.ParseColors(c.Produces)
			if err != nil {
				return nil, nil, &userError{fmt.Errorf("card %q: %w", c.Name, err)}
			}
			card.Produces = colors
		}
		deck.Mainboard = append(deck.Mainboard, card)
	}

	entries, unresolved, err := deck.Entries()
	if err != nil {
		return nil, nil, &userError{err}
	}
	if len(unresolved) == 0 {
		return entries, nil, nil
	}
	if h.lookup == nil {
		return nil, nil, errLookupDisabled
	}

	resolved, notFound, err := h.lookup.Resolve(r.Context(), unresolved)
	if err != nil {
		return nil, nil, err
	}
	return append(entries, resolved...), notFound, nil
}

func hypergeometricConfig(req *ManabaseRequest) manabase.HypergeometricConfig {
	cfg := manabase.DefaultHypergeometricConfig()
	if req.Turn != nil {
		cfg.Turn = *req.Turn
	}
	if req.Confidence != nil {
		cfg.Confidence = *req.Confidence
	}
	if req.HandSize != nil {
		cfg.HandSize = *req.HandSize
	}
	cfg.OnThePlay = req.OnThePlay
	return cfg
}

// ParseCostRequest is the body of POST /api/v1/costs/parse.
type ParseCostRequest struct {
	Cost string `json:"cost" validate:"max=200"`
}

// SymbolView is one parsed symbol.
type SymbolView struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
}

// ParseCostResponse describes a parsed mana cost.
type ParseCostResponse struct {
	Cost    string                     `json:"cost"`
	CMC     int                        `json:"cmc"`
	Symbols []SymbolView               `json:"symbols"`
	Pips    map[manacost.Color]float64 `json:"pips"`
}

// ParseCost parses a mana cost string.
func (h *ManabaseHandler) ParseCost(w http.ResponseWriter, r *http.Request) {
	var req ParseCostRequest
	if !h.decode(w, r, &req) {
		return
	}

	cost, err := manacost.Parse(req.Cost)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	symbols := make([]SymbolView, 0, len(cost.Symbols))
	for _, s := range cost.Symbols {
		symbols = append(symbols, SymbolView{Symbol: s.String(), Kind: s.Kind.String()})
	}

	response.Success(w, ParseCostResponse{
		Cost:    cost.String(),
		CMC:     cost.CMC(),
		Symbols: symbols,
		Pips:    cost.Pips(),
	})
}

// FormatView describes one format preset.
type FormatView struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Description    string `json:"description"`
	TotalCards     int    `json:"total_cards"`
	TargetLands    int    `json:"target_lands"`
	RecommendedMin int    `json:"recommended_min"`
	RecommendedMax int    `json:"recommended_max"`
}

// GetFormats lists the format presets.
func (h *ManabaseHandler) GetFormats(w http.ResponseWriter, _ *http.Request) {
	formats := make([]FormatView, 0, len(manabase.Formats))
	for _, f := range manabase.Formats {
		low, high := f.RecommendedLandRange()
		name, _ := f.MarshalText()
		formats = append(formats, FormatView{
			Name:           string(name),
			DisplayName:    f.Name(),
			Description:    f.Description(),
			TotalCards:     f.DefaultCards(),
			TargetLands:    f.DefaultLands(),
			RecommendedMin: low,
			RecommendedMax: high,
		})
	}
	response.Success(w, formats)
}

// AlgorithmView describes one calculator.
type AlgorithmView struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

var algorithmDescriptions = map[manabase.Algorithm]string{
	manabase.Simple:         "Lands proportional to raw colored pip counts.",
	manabase.CMCWeighted:    "Lands proportional to pips weighted by each card's mana value.",
	manabase.Hypergeometric: "Fewest sources per color reaching the confidence by the reference turn.",
}

// GetAlgorithms lists the calculators.
func (h *ManabaseHandler) GetAlgorithms(w http.ResponseWriter, _ *http.Request) {
	algos := make([]AlgorithmView, 0, len(manabase.Algorithms))
	for _, a := range manabase.Algorithms {
		algos = append(algos, AlgorithmView{
			Name:        a.String(),
			DisplayName: a.DisplayName(),
			Description: algorithmDescriptions[a],
		})
	}
	response.Success(w, algos)
}

// decode reads and validates a JSON body, writing the error response on failure.
func (h *ManabaseHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}

	if err := h.validate.Validate(dst); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			response.ValidationFailed(w, "validation failed", fields)
			return false
		}
		response.BadRequest(w, err)
		return false
	}
	return true
}

func (h *ManabaseHandler) writeLookupError(w http.ResponseWriter, err error) {
	var ue *userError
	switch {
	case errors.As(err, &ue):
		response.BadRequest(w, ue.err)
	case errors.Is(err, errLookupDisabled):
		response.ServiceUnavailable(w, err)
	case errors.Is(err, manacost.ErrMalformedCost):
		response.BadRequest(w, err)
	default:
		h.logger.Warn("Card lookup failed", zap.Error(err))
		response.BadGateway(w, err)
	}
}

// writeCalculationError maps calculator errors: internal defects are 500, the rest 400.
func writeCalculationError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if !manabase.IsUserError(err) {
		logger.Error("Mana base calculation defect", zap.Error(err))
		response.InternalError(w, err)
		return
	}
	response.BadRequest(w, err)
}

var errLookupDisabled = errors.New("card lookup is disabled; provide a cost for every card")

type userError struct{ err error }

func (e *userError) Error() string { return e.err.Error() }
func (e *userError) Unwrap() error { return e.err }
