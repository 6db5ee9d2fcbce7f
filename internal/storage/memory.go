package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"sweetshop/internal/apperr"
	"sweetshop/internal/models"
)

// MemorySweetStore keeps the catalog in a map guarded by a mutex. It mirrors
// the MySQL store's semantics, including atomic stock decrements, so service
// and handler tests run without a database.
type MemorySweetStore struct {
	mu     sync.Mutex
	sweets map[int]*models.Sweet
	nextID int
}

func NewMemorySweetStore() *MemorySweetStore {
	return &MemorySweetStore{
		sweets: make(map[int]*models.Sweet),
		nextID: 1,
	}
}

func (s *MemorySweetStore) Create(name, category string, price float64, quantity int) (*models.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sweet := &models.Sweet{
		ID:        s.nextID,
		Name:      name,
		Category:  category,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sweets[sweet.ID] = sweet
	s.nextID++

	return copySweet(sweet), nil
}

func (s *MemorySweetStore) GetByID(id int) (*models.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sweet, ok := s.sweets[id]
	if !ok {
		return nil, apperr.NotFound("Sweet not found")
	}
	return copySweet(sweet), nil
}

func (s *MemorySweetStore) List() ([]*models.Sweet, error) {
	return s.Search(models.SweetFilter{})
}

func (s *MemorySweetStore) Search(filter models.SweetFilter) ([]*models.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := []*models.Sweet{}
	search := strings.ToLower(filter.Search)
	for _, sweet := range s.sweets {
		if search != "" && !strings.Contains(strings.ToLower(sweet.Name), search) {
			continue
		}
		if filter.Category != "" && sweet.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && sweet.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && sweet.Price > *filter.MaxPrice {
			continue
		}
		results = append(results, copySweet(sweet))
	}

	sort.Slice(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	return results, nil
}

func (s *MemorySweetStore) Update(id int, patch models.SweetPatch) (*models.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sweet, ok := s.sweets[id]
	if !ok {
		return nil, apperr.NotFound("Sweet not found")
	}

	if patch.Name == nil && patch.Category == nil && patch.Price == nil && patch.Quantity == nil {
		return nil, apperr.Validation("No fields to update")
	}

	if patch.Name != nil {
		sweet.Name = *patch.Name
	}
	if patch.Category != nil {
		sweet.Category = *patch.Category
	}
	if patch.Price != nil {
		sweet.Price = *patch.Price
	}
	if patch.Quantity != nil {
		sweet.Quantity = *patch.Quantity
	}
	sweet.UpdatedAt = time.Now()

	return copySweet(sweet), nil
}

func (s *MemorySweetStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sweets[id]; !ok {
		return apperr.NotFound("Sweet not found")
	}
	delete(s.sweets, id)
	return nil
}

func (s *MemorySweetStore) DecrementQuantity(id, qty int) (*models.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sweet, ok := s.sweets[id]
	if !ok {
		return nil, apperr.NotFound("Sweet not found")
	}
	if sweet.Quantity < qty {
		return nil, apperr.Validation("Not enough items in stock")
	}

	sweet.Quantity -= qty
	sweet.UpdatedAt = time.Now()
	return copySweet(sweet), nil
}

func (s *MemorySweetStore) IncrementQuantity(id, qty int) (*models.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sweet, ok := s.sweets[id]
	if !ok {
		return nil, apperr.NotFound("Sweet not found")
	}

	sweet.Quantity += qty
	sweet.UpdatedAt = time.Now()
	return copySweet(sweet), nil
}

func copySweet(sweet *models.Sweet) *models.Sweet {
	c := *sweet
	return &c
}

type MemoryUserStore struct {
	mu     sync.Mutex
	users  map[int]*models.User
	nextID int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func (s *MemoryUserStore) Create(username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return nil, apperr.Conflict("Username or email already exists")
		}
	}

	user := &models.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	s.nextID++

	return copyUser(user), nil
}

func (s *MemoryUserStore) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return copyUser(user), nil
}

func (s *MemoryUserStore) GetByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (s *MemoryUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func copyUser(user *models.User) *models.User {
	c := *user
	return &c
}
