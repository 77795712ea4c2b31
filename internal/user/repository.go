package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, u *User) (uint, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (uint, error) {
	var id uint
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, phone, user_type, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.Username, u.Email, u.Phone, u.UserType, u.PasswordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, phone, user_type, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.UserType, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProfile resolves the customer identity for an order. The detail table
// depends on user_type; missing detail rows fall back to the users columns.
func (r *repository) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, phone, user_type
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.UserType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Name:     "Customer",
		Phone:    u.Phone,
		Email:    u.Email,
		UserType: u.UserType,
	}

	detailTable := "retail_customers"
	if u.UserType == TypeBusinessPartner {
		detailTable = "business_partners"
	}

	var firstName, lastName, phone, email sql.NullString
	err = r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT first_name, last_name, phone_number, email
		FROM %s
		WHERE user_id = $1
	`, detailTable), userID).Scan(&firstName, &lastName, &phone, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(strings.TrimSpace(firstName.String) + " " + strings.TrimSpace(lastName.String))
	if name != "" {
		p.Name = name
	}
	if phone.String != "" {
		p.Phone = phone.String
	}
	if email.String != "" {
		p.Email = email.String
	}

	return p, nil
}
