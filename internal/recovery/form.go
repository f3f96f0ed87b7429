// Package recovery implements the password reset form: reading the recovery
// token, checking that both password fields agree, and asking the backend to
// change the password.
package recovery

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/passreset/internal/domain"
)

// TokenParam is the query string key carrying the recovery token.
const TokenParam = "token"

// NoTokenPlaceholder is shown in place of a missing token.
const NoTokenPlaceholder = "No token provided"

// SuccessPath is where the user is sent after a successful change.
const SuccessPath = "/"

// LocationQuery reads values from the current URL's query string.
type LocationQuery interface {
	Get(key string) string
}

// Navigator moves the user to another path.
type Navigator interface {
	Navigate(path string) error
}

// PasswordChanger asks the backend to change the password for the account the
// token belongs to.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, token, password string) error
}

// FormInput holds the two password fields of one submission.
type FormInput struct {
	Password        string `form:"password"`
	PasswordConfirm string `form:"passwordConfirm" validate:"eqfield=Password"`
}

var validate = validator.New()

// Form is the password reset form bound to one recovery token.
type Form struct {
	query   LocationQuery
	nav     Navigator
	changer PasswordChanger

	state State
	err   error
}

// NewForm creates a Form in the Idle state.
func NewForm(query LocationQuery, nav Navigator, changer PasswordChanger) *Form {
	return &Form{
		query:   query,
		nav:     nav,
		changer: changer,
		state:   StateIdle,
	}
}

// Token returns the recovery token, or "" when none was provided.
func (f *Form) Token() string {
	return f.query.Get(TokenParam)
}

// TokenLabel returns the token for display, or a placeholder when it is missing.
func (f *Form) TokenLabel() string {
	if token := f.Token(); token != "" {
		return token
	}
	return NoTokenPlaceholder
}

// State returns the current state of the form.
func (f *Form) State() State { return f.state }

// Err returns the error of the last failed submission, if any.
func (f *Form) Err() error { return f.err }

// Submit validates the input and, if both passwords match, issues exactly one
// password change request. On success it navigates to SuccessPath.
//
// The returned error is a *domain.ValidationError, *domain.RemoteRejectionError
// or *domain.TransportError. After a failure the form can be submitted again.
func (f *Form) Submit(ctx context.Context, in FormInput) error {
	if f.state == StateSuccess {
		return domain.ErrAlreadySubmitted
	}

	if err := checkInput(in); err != nil {
		return f.fail(err)
	}

	f.state = StateSubmitting
	f.err = nil

	if err := f.changer.ChangePassword(ctx, f.Token(), in.Password); err != nil {
		return f.fail(classify(err))
	}

	f.state = StateSuccess
	return f.nav.Navigate(SuccessPath)
}

func (f *Form) fail(err error) error {
	f.state = StateFailed
	f.err = err
	return err
}

func checkInput(in FormInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0]
		if field.Tag() == "eqfield" {
			return &domain.ValidationError{Field: "passwordConfirm", Err: domain.ErrPasswordMismatch}
		}
		return &domain.ValidationError{Field: field.Field(), Err: err}
	}
	return &domain.ValidationError{Err: err}
}

// classify makes sure whatever the changer returns lands in the error
// taxonomy. Unknown errors are treated as the request not completing.
func classify(err error) error {
	var rejection *domain.RemoteRejectionError
	var transport *domain.TransportError
	if errors.As(err, &rejection) || errors.As(err, &transport) {
		return err
	}
	return &domain.TransportError{Err: err}
}
