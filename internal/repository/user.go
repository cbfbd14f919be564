package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const userColumns = `id, external_id, username, email, created_at, updated_at`

type UserRepository struct {
	db     DBTX
	logger *zerolog.Logger
}

func NewUserRepository(db DBTX, logger *zerolog.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByExternalID returns an error wrapping pgx.ErrNoRows when the subject
// has never been seen.
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = @external_id`

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"external_id": externalID})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user by external id: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, fmt.Errorf("table:users: %w", err)
	}

	return user, nil
}

type upsertedUser struct {
	model.User
	Created bool `db:"created"`
}

// Upsert inserts the identity or refreshes username and email of the
// existing row. created reports whether a new row was inserted.
func (r *UserRepository) Upsert(ctx context.Context, identity model.Identity) (user model.User, created bool, err error) {
	query := `
		INSERT INTO users (external_id, username, email)
		VALUES (@external_id, @username, @email)
		ON CONFLICT (external_id) DO UPDATE
		SET username = EXCLUDED.username,
			email = EXCLUDED.email,
			updated_at = now()
		RETURNING ` + userColumns + `, (xmax = 0) AS created`

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{
		"external_id": identity.ExternalID,
		"username":    identity.Username,
		"email":       identity.Email,
	})
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to upsert user: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[upsertedUser])
	if err != nil {
		return model.User{}, false, fmt.Errorf("table:users: %w", err)
	}

	if row.Created {
		requestLogger(ctx, r.logger).Info().
			Str("user_id", row.ID.String()).
			Str("external_id", row.ExternalID).
			Msg("provisioned user")
	}

	return row.User, row.Created, nil
}
