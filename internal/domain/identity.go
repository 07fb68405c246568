package domain

import "time"

// Role tags an identity as a buyer-side user or a seller.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleSeller }

// Identity is implemented by *User and *Seller. Role-specific behavior is
// resolved by a type switch on the concrete value, never by comparing strings
// inside handlers.
type Identity interface {
	IdentityID() string
	IdentityEmail() string
	IdentityRole() Role
}

// User is a buyer-side account. Rows are only ever created through OTP
// verification, never by direct insertion.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

func (u *User) IdentityID() string    { return u.UserID }
func (u *User) IdentityEmail() string { return u.Email }
func (u *User) IdentityRole() Role    { return RoleUser }

// Seller is a merchant account. A seller owns at most one shop.
type Seller struct {
	SellerID     string    `json:"id" dynamodbav:"seller_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PhoneNumber  string    `json:"phone_number" dynamodbav:"phone_number"`
	Country      string    `json:"country" dynamodbav:"country"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	ShopID       string    `json:"shop_id,omitempty" dynamodbav:"shop_id"`
	Shop         *Shop     `json:"shop,omitempty" dynamodbav:"-"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

func (s *Seller) IdentityID() string    { return s.SellerID }
func (s *Seller) IdentityEmail() string { return s.Email }
func (s *Seller) IdentityRole() Role    { return RoleSeller }

// RegisterUserRequest starts user registration; the account is created only
// after the OTP is verified.
type RegisterUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// VerifyUserRequest completes user registration.
type VerifyUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterSellerRequest starts seller registration.
type RegisterSellerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

// VerifySellerRequest completes seller registration.
type VerifySellerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

// LoginRequest authenticates either role against its own table.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts an OTP-gated password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyForgotPasswordRequest redeems the reset OTP for a short-lived grant.
type VerifyForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// ResetPasswordRequest consumes the grant and replaces the password.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}
