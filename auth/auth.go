/*
Package auth implements account registration, login and bearer-token
verification.

PURPOSE:
  Thin authentication glue around the user store: validate registration
  fields, reject duplicate email or CPF, hash passwords with bcrypt and
  issue signed HS256 bearer tokens with a 7-day expiry.

SECURITY NOTES:
  - Passwords are stored only as bcrypt hashes
  - Login failures are indistinguishable (unknown email vs wrong password)
  - The sanitized User never carries the password hash into API responses

SEE ALSO:
  - auth/token.go: Token issuance and parsing
  - store/sqlite: UserStore implementation
  - api/middleware.go: Bearer-token request guard
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCredentials is returned for unknown email and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ConflictError reports a duplicate unique field at registration.
type ConflictError struct {
	Field string // "email" or "cpf"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

// =============================================================================
// USER
// =============================================================================

type User struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	CPF          string       `json:"cpf"`
	BirthDate    generic.Date `json:"birth_date"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Sanitized returns a copy safe to serialize in API responses.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// UserStore is the persistence contract for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error

	// UserByEmail returns (nil, nil) when no account matches.
	UserByEmail(ctx context.Context, email string) (*User, error)

	// UserByID returns (nil, nil) when no account matches.
	UserByID(ctx context.Context, id string) (*User, error)

	// UserByEmailOrCPF returns the first account matching either unique
	// field, or (nil, nil).
	UserByEmailOrCPF(ctx context.Context, email, cpf string) (*User, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// TokenTTL is the bearer token lifetime.
const TokenTTL = 7 * 24 * time.Hour

type Service struct {
	users  UserStore
	secret []byte
	clock  generic.Clock
}

func NewService(users UserStore, secret []byte, clock generic.Clock) *Service {
	return &Service{users: users, secret: secret, clock: clock}
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date"`
}

// Register creates an account and returns a bearer token plus the
// sanitized user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, User, error) {
	for field, value := range map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     in.Email,
		"password":  in.Password,
		"cpf":       in.CPF,
		"birthDate": in.BirthDate,
	} {
		if value == "" {
			return "", User{}, &generic.ValidationError{Field: field, Reason: "required"}
		}
	}

	birthDate, err := generic.ParseDate(in.BirthDate)
	if err != nil {
		return "", User{}, &generic.ValidationError{Field: "birthDate", Reason: "want YYYY-MM-DD"}
	}

	existing, err := s.users.UserByEmailOrCPF(ctx, in.Email, in.CPF)
	if err != nil {
		return "", User{}, err
	}
	if existing != nil {
		field := "cpf"
		if existing.Email == in.Email {
			field = "email"
		}
		return "", User{}, &ConflictError{Field: field}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		CPF:          in.CPF,
		BirthDate:    birthDate,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", User{}, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", User{}, err
	}
	return token, user.Sanitized(), nil
}

// Login checks credentials and returns a bearer token plus the sanitized
// user. Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return "", User{}, err
	}
	if user == nil {
		return "", User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", User{}, err
	}
	return token, user.Sanitized(), nil
}

// Verify parses a bearer token and echoes back the associated user.
func (s *Service) Verify(ctx context.Context, token string) (User, error) {
	userID, err := s.parseToken(token)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if user == nil {
		return User{}, ErrInvalidToken
	}
	return user.Sanitized(), nil
}
