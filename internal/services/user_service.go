package services

import (
	"regexp"
	"strings"

	"sweetshop/internal/apperr"
	"sweetshop/internal/models"
	"sweetshop/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService struct {
	store  storage.UserStore
	logger zerolog.Logger
}

func NewUserService(store storage.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("Username, email, and password are required")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Validation("Username cannot be empty")
	}
	// Emails are stored lowercased so the uniqueness check stays
	// case-insensitive.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperr.Validation("Email cannot be empty")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, apperr.Validation("Password cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return nil, apperr.Validation("Invalid email format")
	}
	if len(req.Password) < 6 {
		return nil, apperr.Validation("Password must be at least 6 characters long")
	}

	if err := s.checkAvailable(username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, apperr.Internal("Registration failed", err)
	}

	user, err := s.store.Create(username, email, string(hash), false)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User registered successfully")
	return user, nil
}

func (s *UserService) checkAvailable(username, email string) error {
	if _, err := s.store.GetByUsername(username); err == nil {
		return apperr.Conflict("Username or email already exists")
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return err
	}

	if _, err := s.store.GetByEmail(email); err == nil {
		return apperr.Conflict("Username or email already exists")
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return err
	}

	return nil
}

func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperr.Validation("Username and password are required")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Validation("Username cannot be empty")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, apperr.Validation("Password cannot be empty")
	}

	user, err := s.store.GetByUsername(username)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", username).Msg("Failed authentication attempt")
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User authenticated successfully")
	return user, nil
}
