package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sweetshop/internal/apperr"
	"sweetshop/internal/models"

	"github.com/go-sql-driver/mysql"
)

const duplicateEntryErrNo = 1062

type MySQLSweetStore struct {
	db *sql.DB
}

func NewMySQLSweetStore(db *sql.DB) *MySQLSweetStore {
	return &MySQLSweetStore{db: db}
}

func (s *MySQLSweetStore) Create(name, category string, price float64, quantity int) (*models.Sweet, error) {
	result, err := s.db.Exec(
		"INSERT INTO sweets (name, category, price, quantity) VALUES (?, ?, ?, ?)",
		name, category, price, quantity,
	)
	if err != nil {
		return nil, apperr.Internal("Failed to add sweet", fmt.Errorf("insert sweet: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperr.Internal("Failed to add sweet", fmt.Errorf("last insert id: %w", err))
	}

	return s.GetByID(int(id))
}

func (s *MySQLSweetStore) GetByID(id int) (*models.Sweet, error) {
	var sweet models.Sweet
	err := s.db.QueryRow(
		"SELECT id, name, category, price, quantity, created_at, updated_at FROM sweets WHERE id = ?",
		id,
	).Scan(&sweet.ID, &sweet.Name, &sweet.Category, &sweet.Price, &sweet.Quantity, &sweet.CreatedAt, &sweet.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Sweet not found")
	}
	if err != nil {
		return nil, apperr.Internal("Database error", fmt.Errorf("fetch sweet %d: %w", id, err))
	}

	return &sweet, nil
}

func (s *MySQLSweetStore) List() ([]*models.Sweet, error) {
	return s.Search(models.SweetFilter{})
}

func (s *MySQLSweetStore) Search(filter models.SweetFilter) ([]*models.Sweet, error) {
	query := "SELECT id, name, category, price, quantity, created_at, updated_at FROM sweets WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		query += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		query += " AND price >= ?"
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += " AND price <= ?"
		args = append(args, *filter.MaxPrice)
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Internal("Database error", fmt.Errorf("search sweets: %w", err))
	}
	defer rows.Close()

	sweets := []*models.Sweet{}
	for rows.Next() {
		var sweet models.Sweet
		err := rows.Scan(&sweet.ID, &sweet.Name, &sweet.Category, &sweet.Price, &sweet.Quantity, &sweet.CreatedAt, &sweet.UpdatedAt)
		if err != nil {
			return nil, apperr.Internal("Database error", fmt.Errorf("scan sweet: %w", err))
		}
		sweets = append(sweets, &sweet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("Database error", fmt.Errorf("iterate sweets: %w", err))
	}

	return sweets, nil
}

func (s *MySQLSweetStore) Update(id int, patch models.SweetPatch) (*models.Sweet, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	var sets []string
	var args []interface{}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if len(sets) == 0 {
		return nil, apperr.Validation("No fields to update")
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	_, err := s.db.Exec("UPDATE sweets SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, apperr.Internal("Failed to update sweet", fmt.Errorf("update sweet %d: %w", id, err))
	}

	return s.GetByID(id)
}

func (s *MySQLSweetStore) Delete(id int) error {
	result, err := s.db.Exec("DELETE FROM sweets WHERE id = ?", id)
	if err != nil {
		return apperr.Internal("Failed to delete sweet", fmt.Errorf("delete sweet %d: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Internal("Failed to delete sweet", fmt.Errorf("rows affected: %w", err))
	}
	if affected == 0 {
		return apperr.NotFound("Sweet not found")
	}

	return nil
}

// DecrementQuantity is a single conditional update so concurrent purchases
// against the same sweet serialize inside the database and can never drive
// the stock negative.
func (s *MySQLSweetStore) DecrementQuantity(id, qty int) (*models.Sweet, error) {
	result, err := s.db.Exec(
		"UPDATE sweets SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND quantity >= ?",
		qty, id, qty,
	)
	if err != nil {
		return nil, apperr.Internal("Failed to process purchase", fmt.Errorf("decrement sweet %d: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperr.Internal("Failed to process purchase", fmt.Errorf("rows affected: %w", err))
	}
	if affected == 0 {
		if _, err := s.GetByID(id); err != nil {
			return nil, err
		}
		return nil, apperr.Validation("Not enough items in stock")
	}

	return s.GetByID(id)
}

func (s *MySQLSweetStore) IncrementQuantity(id, qty int) (*models.Sweet, error) {
	result, err := s.db.Exec(
		"UPDATE sweets SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		qty, id,
	)
	if err != nil {
		return nil, apperr.Internal("Failed to restock sweet", fmt.Errorf("increment sweet %d: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperr.Internal("Failed to restock sweet", fmt.Errorf("rows affected: %w", err))
	}
	if affected == 0 {
		return nil, apperr.NotFound("Sweet not found")
	}

	return s.GetByID(id)
}

type MySQLUserStore struct {
	db *sql.DB
}

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{db: db}
}

func (s *MySQLUserStore) Create(username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (username, email, password_hash, is_admin) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, isAdmin,
	)
	if err != nil {
		// Backstop behind the service-level duplicate check: the unique
		// indexes catch races between concurrent registrations.
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == duplicateEntryErrNo {
			return nil, apperr.Conflict("Username or email already exists")
		}
		return nil, apperr.Internal("Registration failed", fmt.Errorf("insert user: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperr.Internal("Registration failed", fmt.Errorf("last insert id: %w", err))
	}

	return s.GetByID(int(id))
}

func (s *MySQLUserStore) GetByID(id int) (*models.User, error) {
	return s.getUser("id = ?", id)
}

func (s *MySQLUserStore) GetByUsername(username string) (*models.User, error) {
	return s.getUser("username = ?", username)
}

func (s *MySQLUserStore) GetByEmail(email string) (*models.User, error) {
	return s.getUser("email = ?", email)
}

func (s *MySQLUserStore) getUser(where string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE "+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal("Database error", fmt.Errorf("fetch user: %w", err))
	}

	return &user, nil
}
