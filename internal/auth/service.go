// Package auth implements the authentication gate: credential verification
// for login and the ordered validation pipeline for customer registration.
// Handlers stay thin; everything user-visible about an auth failure (the
// exact message and which rule tripped) is decided here.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sakilastore/movie-rental/internal/model"
	"github.com/sakilastore/movie-rental/internal/repository"
	"github.com/sakilastore/movie-rental/internal/utils"
)

// ErrInvalidCredentials covers both unknown-username and wrong-password.
// The two paths are deliberately indistinguishable to the caller so the
// login form cannot be used for username enumeration.
var ErrInvalidCredentials = errors.New("Invalid username or password")

// ValidationError carries the user-facing message for a failed
// registration rule. The message is rendered verbatim in the flash.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func invalid(msg string) error { return &ValidationError{msg: msg} }

// Registration rule messages, in validation order.
const (
	MsgAllFieldsRequired = "All fields are required"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgPasswordTooShort  = "Password must be at least 6 characters"
	MsgUsernameFormat    = "Username must be 3-20 characters"
	MsgUsernameTaken     = "Username is already taken"
	MsgEmailRegistered   = "Email is already registered"
)

// usernameRe enforces both length and character set; "ab!" fails the same
// rule as "ab".
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ClientMeta is the request metadata recorded in the audit log. Passwords
// and hashes are never logged.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// AccountStore is the credential persistence the gate depends on.
type AccountStore interface {
	BeginTx(ctx context.Context) (repository.Tx, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateCustomerTx(ctx context.Context, tx repository.Tx, username, passwordHash string, customerID uint64) (uint64, error)
}

// CustomerStore is the customer persistence used during registration.
type CustomerStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateTx(ctx context.Context, tx repository.Tx, firstName, lastName, email string) (uint64, error)
}

// Service is the authentication gate.
type Service struct {
	accounts   AccountStore
	customers  CustomerStore
	bcryptCost int
	audit      zerolog.Logger
}

// New constructs the gate. audit receives one entry per login attempt and
// registration.
func New(accounts AccountStore, customers CustomerStore, bcryptCost int, audit zerolog.Logger) *Service {
	return &Service{accounts: accounts, customers: customers, bcryptCost: bcryptCost, audit: audit}
}

// VerifyLogin checks the supplied credentials and returns the principal on
// success. Empty input short-circuits before any lookup.
func (s *Service) VerifyLogin(ctx context.Context, username, password string, meta ClientMeta) (model.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Principal{}, invalid("Username and password are required")
	}

	acc, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.auditLogin(username, meta, false)
			return model.Principal{}, ErrInvalidCredentials
		}
		return model.Principal{}, err
	}
	if !utils.VerifyPassword(acc.PasswordHash, password) {
		s.auditLogin(username, meta, false)
		return model.Principal{}, ErrInvalidCredentials
	}

	s.auditLogin(username, meta, true)
	return acc.Principal(), nil
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	FirstName       string
	LastName        string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// RegisterCustomer validates the request (stopping at the first failed
// rule) and creates the customer row and its credential record in one
// transaction, so neither can exist without the other. The returned
// principal is ready to be attached to the session: registration implies
// login.
func (s *Service) RegisterCustomer(ctx context.Context, req RegisterRequest) (model.Principal, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Username == "" || req.Password == "" || req.ConfirmPassword == "" {
		return model.Principal{}, invalid(MsgAllFieldsRequired)
	}
	if req.Password != req.ConfirmPassword {
		return model.Principal{}, invalid(MsgPasswordMismatch)
	}
	if len(req.Password) < 6 {
		return model.Principal{}, invalid(MsgPasswordTooShort)
	}
	if !usernameRe.MatchString(req.Username) {
		return model.Principal{}, invalid(MsgUsernameFormat)
	}
	taken, err := s.accounts.UsernameExists(ctx, req.Username)
	if err != nil {
		return model.Principal{}, err
	}
	if taken {
		return model.Principal{}, invalid(MsgUsernameTaken)
	}
	registered, err := s.customers.EmailExists(ctx, req.Email)
	if err != nil {
		return model.Principal{}, err
	}
	if registered {
		return model.Principal{}, invalid(MsgEmailRegistered)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return model.Principal{}, err
	}

	tx, err := s.accounts.BeginTx(ctx)
	if err != nil {
		return model.Principal{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	customerID, err := s.customers.CreateTx(ctx, tx, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return model.Principal{}, registrationRace(err)
	}
	if _, err := s.accounts.CreateCustomerTx(ctx, tx, req.Username, hash, customerID); err != nil {
		return model.Principal{}, registrationRace(err)
	}
	if err := tx.Commit(); err != nil {
		return model.Principal{}, err
	}
	committed = true

	s.audit.Info().Str("event", "register").Str("username", req.Username).
		Uint64("customer_id", customerID).Msg("customer registered")

	return model.Principal{ID: customerID, Username: req.Username, Role: model.RoleCustomer}, nil
}

// registrationRace maps a unique-constraint violation that slipped past the
// existence checks back onto the matching validation message.
func registrationRace(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return invalid(MsgUsernameTaken)
	}
	return err
}

func (s *Service) auditLogin(username string, meta ClientMeta, ok bool) {
	s.audit.Info().Str("event", "login").Str("username", username).
		Str("ip", meta.IP).Str("user_agent", meta.UserAgent).
		Bool("success", ok).Msg("login attempt")
}
