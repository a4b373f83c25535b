package processor

import (
	"context"
	"errors"

	"data-processor/internal/observability"
	"data-processor/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

var ErrStorageNotConfigured = errors.New("storage not configured")

// UserStore is the persistence surface the processor depends on
type UserStore interface {
	GetUserDataByID(ctx context.Context, id int64) (store.UserData, error)
	CreateUserData(ctx context.Context, params store.CreateUserDataParams) (store.UserData, error)
}

type UserProcessor struct {
	store  UserStore
	logger *observability.Logger
}

func New(store UserStore, logger *observability.Logger) *UserProcessor {
	return &UserProcessor{
		store:  store,
		logger: logger,
	}
}

// CreateUserParams carries the plaintext password only as far as the hash.
type CreateUserParams struct {
	Username            string
	Password            string
	CreditCardEncrypted *string
	SSNEncrypted        *string
}

// GetUser looks up a user row by its numeric ID.
func (p *UserProcessor) GetUser(ctx context.Context, id int64) (store.UserData, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: id})

	if p.store == nil {
		return store.UserData{}, ErrStorageNotConfigured
	}

	user, err := p.store.GetUserDataByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.UserData{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to get user data", err)
		return store.UserData{}, err
	}
	return user, nil
}

// CreateUser persists a new user row. Only the bcrypt hash of the password
// is stored, never the plaintext.
func (p *UserProcessor) CreateUser(ctx context.Context, params CreateUserParams) (store.UserData, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "username", Value: params.Username})

	if p.store == nil {
		return store.UserData{}, ErrStorageNotConfigured
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.UserData{}, err
	}

	user, err := p.store.CreateUserData(ctx, store.CreateUserDataParams{
		Username:            params.Username,
		PasswordHash:        string(hashedPassword),
		CreditCardEncrypted: params.CreditCardEncrypted,
		SSNEncrypted:        params.SSNEncrypted,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create user data", err)
		return store.UserData{}, err
	}
	return user, nil
}
