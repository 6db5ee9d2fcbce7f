package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type SweetHandler struct {
	sweetService *services.SweetService
	logger       zerolog.Logger
}

func NewSweetHandler(sweetService *services.SweetService, logger zerolog.Logger) *SweetHandler {
	return &SweetHandler{
		sweetService: sweetService,
		logger:       logger,
	}
}

func (h *SweetHandler) GetSweets(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.sweetService.List()
	if err != nil {
		h.logger.Error().Err(err).Msg("Error listing sweets")
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweets)
}

func (h *SweetHandler) GetSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := sweetID(w, r)
	if !ok {
		return
	}

	sweet, err := h.sweetService.Get(id)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) SearchSweets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.SweetFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
	}

	if raw := query.Get("minPrice"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "validation_error", "minPrice must be a valid number")
			return
		}
		filter.MinPrice = &minPrice
	}
	if raw := query.Get("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "validation_error", "maxPrice must be a valid number")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	sweets, err := h.sweetService.Search(filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Error searching sweets")
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweets)
}

func (h *SweetHandler) CreateSweet(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Price and quantity must be valid numbers")
		return
	}

	sweet, err := h.sweetService.Create(&req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sweet)
}

func (h *SweetHandler) UpdateSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := sweetID(w, r)
	if !ok {
		return
	}

	var req models.UpdateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Price and quantity must be valid numbers")
		return
	}

	sweet, err := h.sweetService.Update(id, &req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) DeleteSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := sweetID(w, r)
	if !ok {
		return
	}

	if err := h.sweetService.Delete(id); err != nil {
		respondAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Sweet deleted successfully",
	})
}

func (h *SweetHandler) PurchaseSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := sweetID(w, r)
	if !ok {
		return
	}

	// An empty body is allowed and means a single item.
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Quantity must be a valid number")
		return
	}

	sweet, err := h.sweetService.Purchase(id, &req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	userID, _ := middleware.GetUserID(r)
	username, _ := middleware.GetUsername(r)
	h.logger.Info().
		Int("user_id", userID).
		Str("username", username).
		Int("sweet_id", sweet.ID).
		Msg("Purchase completed")

	respondWithJSON(w, http.StatusOK, models.StockResponse{
		Message: "Purchase successful",
		Sweet:   sweet,
	})
}

func (h *SweetHandler) RestockSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := sweetID(w, r)
	if !ok {
		return
	}

	var req models.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Quantity must be a valid number")
		return
	}

	sweet, err := h.sweetService.Restock(id, &req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	userID, _ := middleware.GetUserID(r)
	username, _ := middleware.GetUsername(r)
	h.logger.Info().
		Int("user_id", userID).
		Str("username", username).
		Int("sweet_id", sweet.ID).
		Msg("Restock completed")

	respondWithJSON(w, http.StatusOK, models.StockResponse{
		Message: "Restock successful",
		Sweet:   sweet,
	})
}

func sweetID(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "validation_error", "Invalid sweet ID")
		return 0, false
	}
	return id, true
}
