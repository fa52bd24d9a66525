package repository

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/aladdinbruv/docproche-sub000/models"
)

const usersTable = "users"

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return first[models.User](r.db.From(usersTable).
		Select("*", "", false).
		Eq("id", id))
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return first[models.User](r.db.From(usersTable).
		Select("*", "", false).
		Eq("email", email))
}

func (r *UserRepository) GetActiveByPhone(phone string) (*models.User, error) {
	return first[models.User](r.db.From(usersTable).
		Select("*", "", false).
		Eq("phone", phone).
		Eq("is_active", "true"))
}

// GetMany loads users by id. Missing ids are skipped.
func (r *UserRepository) GetMany(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return fetch[models.User](r.db.From(usersTable).
		Select("*", "", false).
		In("id", ids))
}

// List returns users newest first, narrowed by role and active flag.
func (r *UserRepository) List(filter models.UserFilter) ([]models.User, error) {
	query := r.db.From(usersTable).Select("*", "", false)
	if filter.Role != "" {
		query = query.Eq("role", string(filter.Role))
	}
	if filter.Active != nil {
		query = query.Eq("is_active", strconv.FormatBool(*filter.Active))
	}
	return fetch[models.User](query.Order(orderBy("created_at", false)))
}

func (r *UserRepository) Create(user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := map[string]interface{}{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"full_name":     user.FullName,
		"role":          user.Role,
		"is_active":     true,
	}
	if user.Phone != nil {
		row["phone"] = *user.Phone
	}

	return first[models.User](r.db.From(usersTable).
		Insert(row, false, "", "representation", ""))
}

// Update writes the given columns. Callers whitelist the keys.
func (r *UserRepository) Update(id string, fields map[string]interface{}) (*models.User, error) {
	return first[models.User](r.db.From(usersTable).
		Update(fields, "representation", "").
		Eq("id", id))
}
