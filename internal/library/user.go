package library

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/shared"
)

// UserService manages platform accounts.
type UserService struct {
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewUserService creates a UserService.
func NewUserService(users *repositories.UserRepository, logger *log.Logger) *UserService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &UserService{users: users, logger: logger.With("service", "user")}
}

// Create registers a new account. The email must not already be in use.
func (s *UserService) Create(email, name string) (*models.User, error) {
	user := models.NewUser(0, email, name)
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("created user", "id", user.ID(), "email", user.Email())
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(id string) (*models.User, error) {
	return s.users.Get(id)
}

// List returns users, optionally filtered by a keyword over email and name.
func (s *UserService) List(keyword string) ([]*models.User, error) {
	criteria := map[string]any{}
	if keyword != "" {
		criteria["keyword"] = keyword
	}
	return s.users.List(criteria)
}

// Update changes a user's email address and display name. Empty fields are
// left unchanged; a new email must not already be in use.
func (s *UserService) Update(id, email, name string) (*models.User, error) {
	user, err := s.users.Get(id)
	if err != nil {
		return nil, err
	}

	if email != "" {
		user.SetEmail(email)
	}
	if name != "" {
		user.SetName(name)
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete soft-deletes an account. Users cannot delete themselves.
func (s *UserService) Delete(id, deletedBy string) error {
	if id == deletedBy {
		return fmt.Errorf("%w: cannot delete own account", shared.ErrForbidden)
	}

	if _, err := s.users.Get(id); err != nil {
		return err
	}

	return s.users.DeleteBy(id, deletedBy)
}
