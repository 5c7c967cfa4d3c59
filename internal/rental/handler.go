// internal/rental/handler.go
package rental

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the rental API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/rentals", h.handleBook)
	r.Get("/rentals", h.handleList)
	r.Get("/rentals/{id}", h.handleGet)
	r.Post("/rentals/{id}/return", h.handleReturn)
	r.Post("/rentals/{id}/cancel", h.handleCancel)
	r.Get("/rentals/quote", h.handleQuote)
	r.Get("/shoppers/{id}/rentals", h.handleShopperRentals)
	return r
}

func (h *Handler) handleBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShopperID     uuid.UUID `json:"shopper_id"`
		CostumeID     uuid.UUID `json:"costume_id"`
		StartDate     string    `json:"start_date"`
		EndDate       string    `json:"end_date"`
		PaymentMethod string    `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

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

	rental, err := h.service.BookCostume(r.Context(), BookingRequest{
		ShopperID:     req.ShopperID,
		CostumeID:     req.CostumeID,
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rental)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	costumeID, err := uuid.Parse(q.Get("costume_id"))
	if err != nil {
		http.Error(w, "invalid costume ID", http.StatusBadRequest)
		return
	}
	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	slot, err := h.service.QuoteSlot(r.Context(), costumeID, start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(slot)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rental ID", http.StatusBadRequest)
		return
	}

	rental, err := h.service.GetRental(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(rental)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.service.ListRentals(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rentals)
}

func (h *Handler) handleShopperRentals(w http.ResponseWriter, r *http.Request) {
	shopperID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid shopper ID", http.StatusBadRequest)
		return
	}

	rentals, err := h.service.ListShopperRentals(r.Context(), shopperID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rentals)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rental ID", http.StatusBadRequest)
		return
	}

	if err := h.service.ReturnRental(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rental ID", http.StatusBadRequest)
		return
	}

	if err := h.service.CancelRental(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
