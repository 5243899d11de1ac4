package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"swapi-gateway/internal/catalog"
	"swapi-gateway/pkg/logging/logging"
)

// ListingService is what the handler needs from the catalog.
type ListingService interface {
	Listing(ctx context.Context, page int, filter string) (catalog.Listing, error)
}

// CharactersHandler holds dependencies for the /api/characters endpoint.
type CharactersHandler struct {
	Listings ListingService
}

func NewCharactersHandler(listings ListingService) *CharactersHandler {
	return &CharactersHandler{Listings: listings}
}

type errorResponse struct {
	Error string `json:"error"`
}

// List handles GET /api/characters?page=<n>&filter=<name>.
// page defaults to 1; filter, when set, takes precedence over page.
func (h *CharactersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		logger.Warn("invalid page", zap.String("page", r.URL.Query().Get("page")), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_page"})
		return
	}
	filter := strings.TrimSpace(r.URL.Query().Get("filter"))

	listing, err := h.Listings.Listing(ctx, page, filter)
	if err != nil {
		// Detail is logged by the catalog; the client only gets a generic message.
		if errors.Is(err, context.DeadlineExceeded) {
			writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "gateway_timeout"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: catalog.ListingFailedMessage})
		return
	}

	logger.Info("listing_served",
		zap.Int("page", page),
		zap.String("filter", filter),
		zap.Int("count", len(listing.Characters)),
		zap.Int("total_pages", listing.TotalPages),
		zap.Float64("total_latency_ms", float64(time.Since(start).Microseconds())/1000),
	)

	writeJSON(w, http.StatusOK, listing)
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if page < 1 {
		return 0, errors.New("page must be >= 1")
	}
	return page, nil
}

// writeJSON is a small helper to send JSON responses consistently.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
