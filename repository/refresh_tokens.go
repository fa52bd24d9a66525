package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const refreshTokensTable = "refresh_tokens"

type RefreshTokenRepository struct {
	db Querier
}

func NewRefreshTokenRepository(db Querier) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(userID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error) {
	row := map[string]interface{}{
		"id":         uuid.NewString(),
		"user_id":    userID,
		"token_hash": tokenHash,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"revoked":    false,
	}
	return first[models.RefreshToken](r.db.From(refreshTokensTable).
		Insert(row, false, "", "representation", ""))
}

func (r *RefreshTokenRepository) GetByHash(tokenHash string) (*models.RefreshToken, error) {
	return first[models.RefreshToken](r.db.From(refreshTokensTable).
		Select("*", "", false).
		Eq("token_hash", tokenHash))
}

// Revoke marks a token revoked while it is still live. ErrNotFound means a
// concurrent request already revoked it.
func (r *RefreshTokenRepository) Revoke(id, replacedBy string) error {
	fields := map[string]interface{}{"revoked": true}
	if replacedBy != "" {
		fields["replaced_by"] = replacedBy
	}
	_, err := first[models.RefreshToken](r.db.From(refreshTokensTable).
		Update(fields, "representation", "").
		Eq("id", id).
		Eq("revoked", "false"))
	return err
}

func (r *RefreshTokenRepository) RevokeAll(userID string) error {
	_, _, err := r.db.From(refreshTokensTable).
		Update(map[string]interface{}{"revoked": true}, "minimal", "").
		Eq("user_id", userID).
		Eq("revoked", "false").
		Execute()
	return err
}
