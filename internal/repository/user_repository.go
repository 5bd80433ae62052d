package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
    "github.com/iliyamo/bookfair-stall-reservation/internal/utils"
)

// UserRepo manages persistence for vendor and organizer accounts.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo constructs a UserRepo given a DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, email, password_hash, role, business_name, contact_person, phone, is_active, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.BusinessName,
        &u.ContactPerson, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// Create hashes the password and inserts the account, returning its ID.
// Duplicate emails map to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
    email := strings.ToLower(strings.TrimSpace(u.Email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, password_hash, role, business_name, contact_person, phone) VALUES (?,?,?,?,?,?)",
        email, hash, u.Role, u.BusinessName, u.ContactPerson, u.Phone)
    if err != nil {
        if isDuplicateKey(err) {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
}
