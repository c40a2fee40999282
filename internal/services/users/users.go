package users

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type UsersStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UsersStorage
}

func New(log *slog.Logger, storage UsersStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

// checkUnique reports which of username/email is already taken by a user
// other than excludeID.
func (s *UserService) checkUnique(ctx context.Context, username, email string, excludeID int64) error {
	if username != "" {
		existing, err := s.storage.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != excludeID {
			return ErrUsernameTaken
		}
	}
	if email != "" {
		existing, err := s.storage.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != excludeID {
			return ErrEmailTaken
		}
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", user.Username)
	if err := s.checkUnique(ctx, user.Username, user.Email, 0); err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	created, err := s.storage.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUsernameTaken
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	const op = "users.UserService.List"
	users, total, err := s.storage.List(ctx, search, f.Limit(), f.Offset())
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

// UserUpdate carries a partial user update; nil fields stay unchanged.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

func (s *UserService) Update(ctx context.Context, username string, update UserUpdate) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	var newUsername, newEmail string
	if update.Username != nil && *update.Username != user.Username {
		newUsername = *update.Username
		user.Username = *update.Username
	}
	if update.Email != nil && *update.Email != user.Email {
		newEmail = *update.Email
		user.Email = *update.Email
	}
	if err := s.checkUnique(ctx, newUsername, newEmail, user.ID); err != nil {
		return nil, err
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("conflicting user update")
			return nil, ErrUsernameTaken
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	if err := s.storage.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}
