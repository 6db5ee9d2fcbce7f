// Package storage owns persistence for the catalog and identity records.
// Services receive these interfaces so tests can run against the in-memory
// implementation instead of MySQL.
package storage

import "sweetshop/internal/models"

type SweetStore interface {
	Create(name, category string, price float64, quantity int) (*models.Sweet, error)
	GetByID(id int) (*models.Sweet, error)
	List() ([]*models.Sweet, error)
	Search(filter models.SweetFilter) ([]*models.Sweet, error)
	Update(id int, patch models.SweetPatch) (*models.Sweet, error)
	Delete(id int) error

	// DecrementQuantity atomically subtracts qty from the sweet's stock.
	// It fails without changing anything when qty exceeds current stock.
	DecrementQuantity(id, qty int) (*models.Sweet, error)
	IncrementQuantity(id, qty int) (*models.Sweet, error)
}

type UserStore interface {
	Create(username, email, passwordHash string, isAdmin bool) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}
