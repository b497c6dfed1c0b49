package models

import "errors"

// Domain errors shared between the store, the authentication flow and the
// API handlers. Handlers translate these into transport-level responses.
var (
	// ErrAccountNotFound is returned when an account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateAccount is returned when an insert violates a uniqueness
	// constraint that was not caught by the explicit existence checks.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountNotApproved is returned when an account exists and the
	// credentials match, but the account has not been approved yet.
	ErrAccountNotApproved = errors.New("account not approved")

	// ErrMaterialNotFound is returned when a lesson material does not exist
	// or is not owned by the requesting account.
	ErrMaterialNotFound = errors.New("material not found")

	// ErrSubjectNotFound is returned when a subject does not exist or is
	// not owned by the requesting account.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrDuplicateSubject is returned when a subject name already exists
	// for the same owner.
	ErrDuplicateSubject = errors.New("subject already exists")
)
