package services

import (
	"math"
	"strings"

	"sweetshop/internal/apperr"
	"sweetshop/internal/models"
	"sweetshop/internal/storage"

	"github.com/rs/zerolog"
)

// SweetService validates catalog requests and drives the stock transitions.
// All persistence goes through the injected store; the store is responsible
// for keeping stock decrements atomic.
type SweetService struct {
	store  storage.SweetStore
	logger zerolog.Logger
}

func NewSweetService(store storage.SweetStore, logger zerolog.Logger) *SweetService {
	return &SweetService{
		store:  store,
		logger: logger,
	}
}

func (s *SweetService) Create(req *models.CreateSweetRequest) (*models.Sweet, error) {
	if req.Name == "" || req.Category == "" || req.Price == nil || req.Quantity == nil {
		return nil, apperr.Validation("Name, category, price, and quantity are required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Name cannot be empty")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperr.Validation("Category cannot be empty")
	}

	if *req.Price < 0 {
		return nil, apperr.Validation("Price must be 0 or greater")
	}
	quantity, err := wholeQuantity(*req.Quantity)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apperr.Validation("Quantity must be 0 or greater")
	}

	sweet, err := s.store.Create(name, category, *req.Price, quantity)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating sweet")
		return nil, err
	}

	s.logger.Info().Int("sweet_id", sweet.ID).Str("name", sweet.Name).Msg("Sweet created")
	return sweet, nil
}

func (s *SweetService) Get(id int) (*models.Sweet, error) {
	return s.store.GetByID(id)
}

func (s *SweetService) List() ([]*models.Sweet, error) {
	return s.store.List()
}

func (s *SweetService) Search(filter models.SweetFilter) ([]*models.Sweet, error) {
	return s.store.Search(filter)
}

func (s *SweetService) Update(id int, req *models.UpdateSweetRequest) (*models.Sweet, error) {
	var patch models.SweetPatch

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		patch.Name = &name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, apperr.Validation("Category cannot be empty")
		}
		patch.Category = &category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("Price must be 0 or greater")
		}
		patch.Price = req.Price
	}
	if req.Quantity != nil {
		quantity, err := wholeQuantity(*req.Quantity)
		if err != nil {
			return nil, err
		}
		if quantity < 0 {
			return nil, apperr.Validation("Quantity must be 0 or greater")
		}
		patch.Quantity = &quantity
	}

	if patch.Name == nil && patch.Category == nil && patch.Price == nil && patch.Quantity == nil {
		return nil, apperr.Validation("No fields to update")
	}

	sweet, err := s.store.Update(id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("sweet_id", sweet.ID).Msg("Sweet updated")
	return sweet, nil
}

func (s *SweetService) Delete(id int) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}

	s.logger.Info().Int("sweet_id", id).Msg("Sweet deleted")
	return nil
}

// Purchase decrements stock. A missing quantity means one item.
func (s *SweetService) Purchase(id int, req *models.PurchaseRequest) (*models.Sweet, error) {
	quantity := 1
	if req != nil && req.Quantity != nil {
		q, err := positiveWholeQuantity(*req.Quantity)
		if err != nil {
			return nil, err
		}
		quantity = q
	}

	sweet, err := s.store.DecrementQuantity(id, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("sweet_id", sweet.ID).
		Int("quantity", quantity).
		Int("remaining", sweet.Quantity).
		Msg("Sweet purchased")

	return sweet, nil
}

func (s *SweetService) Restock(id int, req *models.RestockRequest) (*models.Sweet, error) {
	if req == nil || req.Quantity == nil {
		return nil, apperr.Validation("Quantity is required")
	}
	quantity, err := positiveWholeQuantity(*req.Quantity)
	if err != nil {
		return nil, err
	}

	sweet, err := s.store.IncrementQuantity(id, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("sweet_id", sweet.ID).
		Int("quantity", quantity).
		Int("in_stock", sweet.Quantity).
		Msg("Sweet restocked")

	return sweet, nil
}

// maxQuantity bounds the float→int conversion: JSON numbers beyond int
// range would otherwise wrap on conversion and corrupt the stock counter.
const maxQuantity = math.MaxInt32

func wholeQuantity(q float64) (int, error) {
	if q != math.Trunc(q) {
		return 0, apperr.Validation("Quantity must be a whole number")
	}
	if q > maxQuantity || q < -maxQuantity {
		return 0, apperr.Validation("Quantity is out of range")
	}
	return int(q), nil
}

func positiveWholeQuantity(q float64) (int, error) {
	if q <= 0 || q != math.Trunc(q) {
		return 0, apperr.Validation("Quantity must be a positive whole number")
	}
	if q > maxQuantity {
		return 0, apperr.Validation("Quantity is out of range")
	}
	return int(q), nil
}
