// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"costumier/internal/engine"
	"costumier/internal/engine/optimize"
	"costumier/internal/engine/search"
	"costumier/pkg/eventstore"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the catalog API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/costumes", h.handleAddCostume)
	r.Get("/costumes", h.handleListCostumes)
	r.Get("/costumes/{id}", h.handleGetCostume)
	r.Patch("/costumes/{id}", h.handleUpdateQuantity)
	r.Delete("/costumes/{id}", h.handleRetireCostume)
	r.Get("/costumes/{id}/similar", h.handleSimilar)
	r.Get("/search", h.handleSearch)
	r.Get("/autocomplete", h.handleAutocomplete)
	r.Get("/recommendations", h.handleRecommendations)
	r.Post("/combos/optimize", h.handleOptimizeCombo)
	r.Post("/combos/match", h.handleMatchOutfits)
	r.Get("/combos/frequent", h.handleFrequentCombos)
	return r
}

func (h *Handler) handleAddCostume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string  `json:"name"`
		Description   string  `json:"description"`
		Category      string  `json:"category"`
		Size          string  `json:"size"`
		Price         float64 `json:"price"`
		ImageURL      string  `json:"image_url"`
		Condition     string  `json:"condition"`
		TotalQuantity int     `json:"total_quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	costume, err := h.service.AddCostume(r.Context(), NewCostume{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Size:          req.Size,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Condition:     req.Condition,
		TotalQuantity: req.TotalQuantity,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(costume)
}

func (h *Handler) handleListCostumes(w http.ResponseWriter, r *http.Request) {
	costumes, err := h.service.ListCostumes(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(costumes)
}

func (h *Handler) handleGetCostume(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid costume ID", http.StatusBadRequest)
		return
	}

	costume, err := h.service.GetCostume(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(costume)
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid costume ID", http.StatusBadRequest)
		return
	}

	var req struct {
		TotalQuantity int `json:"total_quantity"`
		Quantity      int `json:"quantity"`
		Version       int `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), id, req.TotalQuantity, req.Quantity, req.Version); err != nil {
		if errors.Is(err, eventstore.ErrConcurrencyConflict) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleRetireCostume(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid costume ID", http.StatusBadRequest)
		return
	}

	if err := h.service.RetireCostume(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := SearchRequest{
		Filters: search.Filters{
			SearchText:    q.Get("q"),
			Category:      q.Get("category"),
			Size:          q.Get("size"),
			MinPrice:      parseFloat(q.Get("min_price")),
			MaxPrice:      parseFloat(q.Get("max_price")),
			AvailableOnly: q.Get("available") == "true",
			Condition:     engine.Condition(q.Get("condition")),
		},
		Fuzzy:  q.Get("fuzzy") == "true",
		SortBy: q.Get("sort"),
	}

	costumes, err := h.service.Search(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(costumes)
}

func (h *Handler) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		http.Error(w, "missing prefix", http.StatusBadRequest)
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 5)

	suggestions, err := h.service.Autocomplete(r.Context(), prefix, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type suggestionResponse struct {
		Text     string    `json:"text"`
		Category string    `json:"category"`
		ID       uuid.UUID `json:"id"`
	}
	resp := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, suggestionResponse{Text: s.Text, Category: s.Category, ID: s.Costume.ID})
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid costume ID", http.StatusBadRequest)
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 5)

	costumes, err := h.service.SimilarCostumes(r.Context(), id, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(costumes)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	shopperID, err := uuid.Parse(r.URL.Query().Get("shopper_id"))
	if err != nil {
		http.Error(w, "invalid shopper ID", http.StatusBadRequest)
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 5)

	costumes, err := h.service.RecommendationsFor(r.Context(), shopperID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(costumes)
}

func (h *Handler) handleOptimizeCombo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Budget   int `json:"budget"`
		MaxItems int `json:"max_items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.MaxItems <= 0 {
		req.MaxItems = 5
	}

	result, err := h.service.OptimizeCombo(r.Context(), req.Budget, req.MaxItems)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) handleMatchOutfits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Budget           float64 `json:"budget"`
		MinItems         int     `json:"min_items"`
		MaxItems         int     `json:"max_items"`
		ThemeConsistency bool    `json:"theme_consistency"`
		SameSize         bool    `json:"same_size"`
		MinCondition     string  `json:"min_condition"`
		RequiredColor    string  `json:"required_color"`
		StartDate        string  `json:"start_date"`
		EndDate          string  `json:"end_date"`
		MaxSolutions     int     `json:"max_solutions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.MaxSolutions <= 0 {
		req.MaxSolutions = 10
	}

	constraints := optimize.Constraints{
		Budget:           req.Budget,
		MinItems:         req.MinItems,
		MaxItems:         req.MaxItems,
		ThemeConsistency: req.ThemeConsistency,
		SameSize:         req.SameSize,
		MinCondition:     engine.Condition(req.MinCondition),
		RequiredColor:    req.RequiredColor,
	}
	if req.StartDate != "" && req.EndDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}
		constraints.StartDate = start
		constraints.EndDate = end
	}

	solutions, err := h.service.MatchOutfits(r.Context(), constraints, req.MaxSolutions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type solutionResponse struct {
		CostumeIDs []uuid.UUID `json:"costume_ids"`
		Score      float64     `json:"score"`
		Satisfied  int         `json:"satisfied_constraints"`
		Total      int         `json:"total_constraints"`
	}
	resp := make([]solutionResponse, 0, len(solutions))
	for _, sol := range solutions {
		ids := make([]uuid.UUID, 0, len(sol.Costumes))
		for _, c := range sol.Costumes {
			ids = append(ids, c.ID)
		}
		resp = append(resp, solutionResponse{
			CostumeIDs: ids,
			Score:      sol.Score,
			Satisfied:  sol.Constraints.Satisfied,
			Total:      sol.Constraints.Total,
		})
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleFrequentCombos(w http.ResponseWriter, r *http.Request) {
	minSupport := parseFloat(r.URL.Query().Get("min_support"))
	if minSupport == 0 {
		minSupport = 0.1
	}

	pairs, err := h.service.FrequentCombos(r.Context(), minSupport)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(pairs)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
