package user

import "time"

const (
	TypeCustomer        = "Customer"
	TypeBusinessPartner = "Business Partner"
)

type User struct {
	ID           uint
	Username     string
	Email        string
	Phone        string
	UserType     string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the display identity used on invoices and admin notifications.
// Detail rows (retail_customers / business_partners) override the bare users
// columns when present.
type Profile struct {
	Name     string
	Phone    string
	Email    string
	UserType string
}
