package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type UsersStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetConfirmationCode(ctx context.Context, userID int64, hash []byte) error
}

type AuthService struct {
	log      *slog.Logger
	storage  UsersStorage
	Mailer   MailProvider
	secret   []byte
	tokenTTL time.Duration
}

func New(log *slog.Logger, storage UsersStorage, mailer MailProvider, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		storage:  storage,
		Mailer:   mailer,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Signup creates (or reuses, when the exact same username/email pair is
// registered already) the user, binds a fresh confirmation code to it and
// emails the code. The email is sent synchronously: a delivery failure
// fails the whole signup.
func (a *AuthService) Signup(ctx context.Context, username, email string) error {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "username", username)

	user, err := a.storage.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			log.Info("username taken with different email")
			return ErrUsernameTaken
		}
	case errors.Is(err, storage.ErrNotFound):
		if _, err := a.storage.GetByEmail(ctx, email); err == nil {
			log.Info("email taken with different username")
			return ErrEmailTaken
		} else if !errors.Is(err, storage.ErrNotFound) {
			log.Error(err.Error())
			return err
		}
		user, err = a.storage.Insert(ctx, &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		})
		if err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return ErrUsernameTaken
			}
			log.Error(err.Error())
			return err
		}
	default:
		log.Error(err.Error())
		return err
	}

	code := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if err := a.storage.SetConfirmationCode(ctx, user.ID, hash); err != nil {
		log.Error(err.Error())
		return err
	}
	err = a.Mailer.Send(email, "confirmation_code.html", map[string]any{
		"username":         username,
		"confirmationCode": code,
	})
	if err != nil {
		log.Error("Error sending confirmation email", "errMsg", err.Error())
		return err
	}
	log.Info("confirmation code sent")
	return nil
}

// IssueToken exchanges a valid confirmation code for a signed access
// token. The stored code is left in place after a successful exchange.
func (a *AuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	const op = "auth.AuthService.IssueToken"
	log := a.log.With("op", op, "username", username)

	user, err := a.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if len(user.ConfirmationCodeHash) == 0 {
		log.Info("no confirmation code bound to user")
		return "", ErrInvalidConfirmationCode
	}
	if err := bcrypt.CompareHashAndPassword(user.ConfirmationCodeHash, []byte(confirmationCode)); err != nil {
		log.Info("confirmation code mismatch")
		return "", ErrInvalidConfirmationCode
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(a.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return signed, nil
}

// Authenticate resolves a bearer token to its user.
func (a *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := a.log.With("op", op)

	parsed, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		log.Debug("token rejected")
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := a.storage.Get(ctx, int64(uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("token for unknown user", "uid", int64(uid))
			return nil, ErrInvalidToken
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}
