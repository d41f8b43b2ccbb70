package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/config"
	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
	"github.com/kirillkom/pick-my-fit/internal/observability/metrics"
)

const (
	maxBodyBytes     = 1 << 20
	backpressureWait = 250 * time.Millisecond
)

type Router struct {
	wardrobe  ports.Wardrobe
	generator ports.OutfitGenerator
	metrics   *metrics.HTTPServerMetrics

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
}

func NewRouter(
	cfg config.Config,
	wardrobe ports.Wardrobe,
	generator ports.OutfitGenerator,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		wardrobe:       wardrobe,
		generator:      generator,
		metrics:        httpMetrics,
		rateLimitRPS:   cfg.APIRateLimitRPS,
		rateLimitBurst: cfg.APIRateLimitBurst,
		maxInFlight:    cfg.APIMaxInFlight,
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/v1/categories", rt.listCategories)
	api.HandleFunc("/v1/items", rt.items)
	api.HandleFunc("/v1/items/", rt.itemByID)
	api.HandleFunc("/v1/settings/categories", rt.categorySettings)
	api.HandleFunc("/v1/settings/categories/reset", rt.resetCategorySettings)
	api.HandleFunc("/v1/pins", rt.listPins)
	api.HandleFunc("/v1/pins/", rt.pinByCategory)
	api.HandleFunc("/v1/outfits/generate", rt.generateOutfit)
	api.HandleFunc("/v1/outfits/history", rt.outfitHistory)
	api.HandleFunc("/v1/outfits/favorites", rt.favorites)
	api.HandleFunc("/v1/outfits/favorites/", rt.favoriteByID)

	var rejected rejectionRecorder
	if rt.metrics != nil {
		rejected = rt.metrics
	}
	limited := rateLimitMiddleware(
		backpressureMiddleware(api, rt.maxInFlight, backpressureWait, rejected),
		rt.rateLimitRPS,
		rt.rateLimitBurst,
		rejected,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.Handle("/v1/", limited)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": rt.wardrobe.Categories()})
}

func (rt *Router) items(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := domain.ItemFilter{CategoryID: strings.TrimSpace(r.URL.Query().Get("category"))}
		items, err := rt.wardrobe.ListItems(r.Context(), userID(r), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var req struct {
			CategoryID string   `json:"category_id"`
			Name       string   `json:"name"`
			ImageURI   string   `json:"image_uri"`
			Tags       []string `json:"tags"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		item, err := rt.wardrobe.AddItem(r.Context(), userID(r), domain.ClothingItem{
			CategoryID: req.CategoryID,
			Name:       req.Name,
			ImageURI:   req.ImageURI,
			Tags:       req.Tags,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) itemByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(w, r, "/v1/items/", "item id is required")
	if !ok {
		return
	}
	if err := rt.wardrobe.RemoveItem(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) categorySettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prefs, err := rt.wardrobe.Preferences(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	case http.MethodPut:
		var req struct {
			EnabledCategories domain.EnabledCategories `json:"enabled_categories"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		prefs, err := rt.wardrobe.SetCategoriesEnabled(r.Context(), userID(r), req.EnabledCategories)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) resetCategorySettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	prefs, err := rt.wardrobe.ResetCategories(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (rt *Router) listPins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	prefs, err := rt.wardrobe.Preferences(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pinned_items": prefs.PinnedItems})
}

func (rt *Router) pinByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "/v1/pins/", "category id is required")
	if !ok {
		return
	}

	var (
		prefs *domain.Preferences
		err   error
	)
	switch r.Method {
	case http.MethodPut:
		var req struct {
			ItemID string `json:"item_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		prefs, err = rt.wardrobe.PinItem(r.Context(), userID(r), categoryID, req.ItemID)
	case http.MethodDelete:
		prefs, err = rt.wardrobe.UnpinItem(r.Context(), userID(r), categoryID)
	default:
		methodNotAllowed(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pinned_items": prefs.PinnedItems})
}

func (rt *Router) generateOutfit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Theme string `json:"theme"`
	}
	// The body is optional; an empty one means no theme.
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	generated, err := rt.generator.Generate(r.Context(), userID(r), req.Theme)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generated)
}

func (rt *Router) outfitHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	history, err := rt.wardrobe.History(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outfits": history})
}

func (rt *Router) favorites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		favorites, err := rt.wardrobe.Favorites(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"outfits": favorites})
	case http.MethodPost:
		var req domain.Outfit
		if !decodeBody(w, r, &req) {
			return
		}
		saved, err := rt.wardrobe.SaveFavorite(r.Context(), userID(r), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) favoriteByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(w, r, "/v1/outfits/favorites/", "outfit id is required")
	if !ok {
		return
	}
	if err := rt.wardrobe.RemoveFavorite(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

func pathID(w http.ResponseWriter, r *http.Request, prefix, missing string) (string, bool) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": missing})
		return "", false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body is required"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
