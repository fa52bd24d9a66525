package repository

import (
	"strconv"
	"time"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const otpTable = "otp_codes"

type OTPRepository struct {
	db Querier
}

func NewOTPRepository(db Querier) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create stores a verification under the provider's id.
func (r *OTPRepository) Create(id, phone string, expiresAt time.Time) (*models.OTP, error) {
	row := map[string]interface{}{
		"id":         id,
		"phone":      phone,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"is_used":    false,
		"attempts":   0,
	}
	return first[models.OTP](r.db.From(otpTable).
		Insert(row, false, "", "representation", ""))
}

func (r *OTPRepository) Latest(phone string) (*models.OTP, error) {
	return first[models.OTP](r.db.From(otpTable).
		Select("*", "", false).
		Eq("phone", phone).
		Eq("is_used", "false").
		Order(orderBy("created_at", false)).
		Limit(1, ""))
}

func (r *OTPRepository) MarkUsed(id string) error {
	_, _, err := r.db.From(otpTable).
		Update(map[string]interface{}{"is_used": true}, "minimal", "").
		Eq("id", id).
		Execute()
	return err
}

// SetAttempts stores the attempt counter. The row is matched on the previous
// value so two concurrent failures cannot both count as the same attempt.
func (r *OTPRepository) SetAttempts(id string, previous, attempts int) error {
	_, err := first[models.OTP](r.db.From(otpTable).
		Update(map[string]interface{}{"attempts": attempts}, "representation", "").
		Eq("id", id).
		Eq("attempts", strconv.Itoa(previous)))
	return err
}

func (r *OTPRepository) InvalidatePending(phone string) error {
	_, _, err := r.db.From(otpTable).
		Update(map[string]interface{}{"is_used": true}, "minimal", "").
		Eq("phone", phone).
		Eq("is_used", "false").
		Execute()
	return err
}
