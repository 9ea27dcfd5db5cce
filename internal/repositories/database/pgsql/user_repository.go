package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	"github.com/VidMosaic/vid_mosaic_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, email, full_name, avatar_url, cover_image_url,
	password_hash, auth_provider, provider_user_id,
	refresh_token_hash, refresh_token_expiry_time, created_at, last_updated_at`

func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:        d.UserID,
		Username:      strings.ToLower(d.Username),
		Email:         d.Email,
		FullName:      d.FullName,
		AvatarURL:     d.AvatarURL,
		AuthProvider:  string(d.AuthProvider),
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
	if d.CoverImageURL != "" {
		m.CoverImageURL = sql.NullString{String: d.CoverImageURL, Valid: true}
	}
	if d.PasswordHash != nil {
		m.PasswordHash = sql.NullString{String: *d.PasswordHash, Valid: true}
	}
	if d.ProviderUserID != nil {
		m.ProviderUserID = sql.NullString{String: *d.ProviderUserID, Valid: true}
	}
	if d.RefreshTokenHash != nil {
		m.RefreshTokenHash = sql.NullString{String: *d.RefreshTokenHash, Valid: true}
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Email:        m.Email,
		FullName:     m.FullName,
		AvatarURL:    m.AvatarURL,
		AuthProvider: domain.AuthProvider(m.AuthProvider),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
	if m.CoverImageURL.Valid {
		d.CoverImageURL = m.CoverImageURL.String
	}
	if m.PasswordHash.Valid {
		hash := m.PasswordHash.String
		d.PasswordHash = &hash
	}
	if m.ProviderUserID.Valid {
		id := m.ProviderUserID.String
		d.ProviderUserID = &id
	}
	if m.RefreshTokenHash.Valid {
		hash := m.RefreshTokenHash.String
		d.RefreshTokenHash = &hash
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FullName,
		&m.AvatarURL,
		&m.CoverImageURL,
		&m.PasswordHash,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	d := toDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Username,
		m.Email,
		m.FullName,
		m.AvatarURL,
		m.CoverImageURL,
		m.PasswordHash,
		m.AuthProvider,
		m.ProviderUserID,
		m.RefreshTokenHash,
		m.RefreshTokenExpiryTime,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1);`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PgxUserRepository) FindUserByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1) OR email = $1;`
	return scanUser(r.db.QueryRow(ctx, query, identifier))
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND provider_user_id = $2;`
	return scanUser(r.db.QueryRow(ctx, query, authProvider, providerUserID))
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        UPDATE users
        SET email = $1, full_name = $2, avatar_url = $3, cover_image_url = $4, last_updated_at = $5
        WHERE user_id = $6;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.Email,
		m.FullName,
		m.AvatarURL,
		m.CoverImageURL,
		m.LastUpdatedAt,
		m.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	query := `
        UPDATE users
        SET password_hash = $1, last_updated_at = $2
        WHERE user_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
        UPDATE users
        SET refresh_token_hash = $1, refresh_token_expiry_time = $2, last_updated_at = $3
        WHERE user_id = $4;
    `
	cmdTag, err := r.db.Exec(ctx, query, refreshTokenHash, refreshTokenExpiryTime, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

// RotateRefreshToken is the compare-and-set behind refresh-token rotation. When
// two refresh calls for the same user race, exactly one UPDATE matches the
// stored hash; the loser sees zero rows and gets ErrUnauthorized.
func (r *PgxUserRepository) RotateRefreshToken(ctx context.Context, userID string, oldHash string, newHash string, refreshTokenExpiryTime time.Time) error {
	query := `
        UPDATE users
        SET refresh_token_hash = $1, refresh_token_expiry_time = $2, last_updated_at = $3
        WHERE user_id = $4 AND refresh_token_hash = $5;
    `
	cmdTag, err := r.db.Exec(ctx, query, newHash, refreshTokenExpiryTime, time.Now(), userID, oldHash)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL, last_updated_at = $1
        WHERE user_id = $2;
    `
	// No rows-affected check: logout of an unknown or already-logged-out user is a no-op.
	if _, err := r.db.Exec(ctx, query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
