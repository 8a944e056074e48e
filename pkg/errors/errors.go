package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrDuplicateCedula     = errors.New("a client with that cedula already exists")
	ErrDuplicateUsername   = errors.New("a user with that username already exists")
	ErrClientHasLoans      = errors.New("client still owns loans")
	ErrUserHasLoans        = errors.New("user still has assigned loans")
	ErrSelfDelete          = errors.New("users cannot delete their own account")
	ErrAlreadyPaid         = errors.New("installment is already paid")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTemplateMissing     = errors.New("no message template configured")
)

// BusinessError carries a stable code alongside the human-readable message.
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeClientNotFound      = "CLIENT_NOT_FOUND"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeLoanNotFound        = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound = "INSTALLMENT_NOT_FOUND"
	ErrCodeDuplicateCedula     = "DUPLICATE_CEDULA"
	ErrCodeDuplicateUsername   = "DUPLICATE_USERNAME"
	ErrCodeClientHasLoans      = "CLIENT_HAS_LOANS"
	ErrCodeUserHasLoans        = "USER_HAS_LOANS"
	ErrCodeSelfDelete          = "SELF_DELETE"
	ErrCodeAlreadyPaid         = "INSTALLMENT_ALREADY_PAID"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeTemplateMissing     = "TEMPLATE_MISSING"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
)

// Wrap common errors with business context

func WrapClientNotFound(cedula string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("no client with cedula %s", cedula),
		ErrClientNotFound,
	)
}

func WrapUserNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotFound,
		fmt.Sprintf("no user %s", id),
		ErrUserNotFound,
	)
}

func WrapLoanNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("no loan %s", id),
		ErrLoanNotFound,
	)
}

func WrapInstallmentNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("no installment %s", id),
		ErrInstallmentNotFound,
	)
}

func WrapDuplicateCedula(cedula string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateCedula,
		fmt.Sprintf("a client with cedula %s already exists", cedula),
		ErrDuplicateCedula,
	)
}

func WrapDuplicateUsername(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateUsername,
		fmt.Sprintf("username %s is already taken", username),
		ErrDuplicateUsername,
	)
}

func WrapClientHasLoans(cedula string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientHasLoans,
		fmt.Sprintf("client %s cannot be deleted while loans exist", cedula),
		ErrClientHasLoans,
	)
}

func WrapUserHasLoans(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeUserHasLoans,
		fmt.Sprintf("user %s still has assigned loans, reassign them first", username),
		ErrUserHasLoans,
	)
}

func WrapSelfDelete() *BusinessError {
	return NewBusinessError(ErrCodeSelfDelete, "you cannot delete your own account", ErrSelfDelete)
}

func WrapAlreadyPaid(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyPaid,
		fmt.Sprintf("installment %s has already been paid", id),
		ErrAlreadyPaid,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(ErrCodeInvalidCredentials, "invalid username or password", ErrInvalidCredentials)
}

func WrapTemplateMissing() *BusinessError {
	return NewBusinessError(ErrCodeTemplateMissing, "configure the WhatsApp template first", ErrTemplateMissing)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(ErrCodeDatabaseError, "database operation failed", err)
}
