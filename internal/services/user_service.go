package services

import (
	"errors"
	"fmt"

	"pitwall/internal/models"
	"pitwall/internal/repositories"
)

// UserService handles reads and profile changes of user accounts.
type UserService struct {
	repo   repositories.UserRepository
	events EventPublisher
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo repositories.UserRepository, events EventPublisher) *UserService {
	return &UserService{
		repo:   repo,
		events: events,
	}
}

// GetCurrentUser returns the account behind a token subject.
func (s *UserService) GetCurrentUser(email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// GetAllUsers returns every account without password hashes.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// UpdateUser applies the supplied fields to the account with the given nick.
// Only the owner or an admin may do so.
func (s *UserService) UpdateUser(actor Claims, nick string, update models.UserUpdate) (*models.User, error) {
	if update.Empty() {
		return nil, ErrEmptyUpdate
	}

	user, err := s.repo.GetByNick(nick)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, user) {
		return nil, ErrForbidden
	}

	if update.Nick != nil && *update.Nick != user.Nick {
		if err := s.ensureFree(s.repo.GetByNick, *update.Nick, ErrDuplicateNick); err != nil {
			return nil, err
		}
		user.Nick = *update.Nick
	}
	if update.Email != nil && *update.Email != user.Email {
		if err := s.ensureFree(s.repo.GetByEmail, *update.Email, ErrDuplicateEmail); err != nil {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Surname != nil {
		user.Surname = *update.Surname
	}
	if update.Gender != nil {
		user.Gender = *update.Gender
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	publish(s.events, EventUserUpdated, map[string]string{"id": user.ID, "nick": user.Nick})
	public := user.Public()
	return &public, nil
}

// DeleteUser removes the account with the given nick. Only the owner or an
// admin may do so.
func (s *UserService) DeleteUser(actor Claims, nick string) error {
	user, err := s.repo.GetByNick(nick)
	if err != nil {
		return err
	}
	if !canModify(actor, user) {
		return ErrForbidden
	}
	if err := s.repo.DeleteByNick(nick); err != nil {
		return err
	}

	publish(s.events, EventUserDeleted, map[string]string{"id": user.ID, "nick": user.Nick})
	return nil
}

func (s *UserService) ensureFree(lookup func(string) (*models.User, error), value string, taken error) error {
	_, err := lookup(value)
	if err == nil {
		return fmt.Errorf("'%s': %w", value, taken)
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}
	return nil
}

func canModify(actor Claims, user *models.User) bool {
	return actor.IsAdmin() || actor.Email == user.Email
}
