package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	GetByExternalID(ctx context.Context, externalID string) (model.User, error)
	Upsert(ctx context.Context, identity model.Identity) (model.User, bool, error)
}

// IdentityProvider resolves an authenticated subject. AuthService is the
// Clerk-backed implementation.
type IdentityProvider interface {
	Lookup(ctx context.Context, externalID string) (model.Identity, error)
}

// WelcomeMailer schedules the welcome e-mail of a new user.
type WelcomeMailer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
}

type UserService struct {
	store      UserStore
	identities IdentityProvider
	mailer     WelcomeMailer
	logger     *zerolog.Logger
}

func NewUserService(store UserStore, identities IdentityProvider, mailer WelcomeMailer, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:      store,
		identities: identities,
		mailer:     mailer,
		logger:     logger,
	}
}

// Resolve maps an authenticated subject to its local user, provisioning the
// row from the identity provider the first time the subject is seen.
func (s *UserService) Resolve(ctx context.Context, externalID string) (model.User, error) {
	if externalID == "" {
		return model.User{}, errs.NewUnauthorizedError("Unauthorized", false)
	}

	user, err := s.store.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, err
	}

	identity, err := s.identities.Lookup(ctx, externalID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to resolve identity: %w", err)
	}

	user, created, err := s.store.Upsert(ctx, identity)
	if err != nil {
		return model.User{}, err
	}

	if created && user.Email != "" && s.mailer != nil {
		if err := s.mailer.EnqueueWelcomeEmail(ctx, user.Email, user.Username); err != nil {
			logger := s.logger
			if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
				logger = l
			}
			logger.Warn().
				Err(err).
				Str("user_id", user.ID.String()).
				Msg("failed to enqueue welcome email")
		}
	}

	return user, nil
}
