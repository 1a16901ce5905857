package repository

import (
	"context"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository provides access to registered visitors.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (int, error) {
	query := `INSERT INTO users (full_name, email, phone, password_hash)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, user.FullName, user.Email, user.Phone, user.PasswordHash).Scan(&id)
	if err != nil {
		return 0, wrapErr("create user", err)
	}
	return id, nil
}

// GetByEmail looks a user up by e-mail (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := conn(ctx, r.db).GetContext(ctx, &user, "SELECT * FROM users WHERE LOWER(email)=LOWER($1)", email)
	if err != nil {
		return nil, wrapErr("get user by email", err)
	}
	return &user, nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := conn(ctx, r.db).GetContext(ctx, &user, "SELECT * FROM users WHERE id=$1", id)
	if err != nil {
		return nil, wrapErr("get user", err)
	}
	return &user, nil
}

// GetByTelegramID finds the user who linked the given Telegram account.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	err := conn(ctx, r.db).GetContext(ctx, &user, "SELECT * FROM users WHERE telegram_id=$1", telegramID)
	if err != nil {
		return nil, wrapErr("get user by telegram id", err)
	}
	return &user, nil
}

// LinkTelegram stores the Telegram account of a user.
func (r *UserRepository) LinkTelegram(ctx context.Context, userID int, telegramID int64) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE users SET telegram_id=$1 WHERE id=$2", telegramID, userID)
	return wrapErr("link telegram", err)
}

// SetBlocked blocks or unblocks a user.
func (r *UserRepository) SetBlocked(ctx context.Context, userID int, blocked bool) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE users SET blocked=$1 WHERE id=$2", blocked, userID)
	if err != nil {
		return wrapErr("block user", err)
	}
	return expectRow("block user", res)
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := conn(ctx, r.db).SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id DESC")
	if err != nil {
		return nil, wrapErr("list users", err)
	}
	return users, nil
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).GetContext(ctx, &n, "SELECT COUNT(*) FROM users")
	return n, wrapErr("count users", err)
}

// AdminRepository provides access to administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO admins (full_name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		admin.FullName, admin.Email, admin.PasswordHash).Scan(&id)
	if err != nil {
		return 0, wrapErr("create admin", err)
	}
	return id, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := conn(ctx, r.db).GetContext(ctx, &admin, "SELECT * FROM admins WHERE LOWER(email)=LOWER($1)", email)
	if err != nil {
		return nil, wrapErr("get admin by email", err)
	}
	return &admin, nil
}
