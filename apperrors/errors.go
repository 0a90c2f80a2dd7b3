package apperrors

import "errors"

// Sentinel errors shared by repositories and services. Handlers map them
// to HTTP status codes; everything else wraps them with %w and context.
var (
	// ErrNotFound covers missing entities and missing references alike:
	// a game id that does not exist, an age rating / genre / platform id
	// given on create/update that points nowhere, or a search result that
	// vanished between the id query and the detail fetch.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned for unique-name and unique-email
	// collisions. Every creation path returns it; none return nil sentinels.
	ErrAlreadyExists = errors.New("already exists")

	// ErrHasRelated blocks deleting a genre or platform that is still
	// referenced by at least one game.
	ErrHasRelated = errors.New("has related entities")

	// ErrInvalidCredentials is returned on login with a wrong email or
	// password, without distinguishing which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when the acting user may not touch the
	// entity, e.g. deleting someone else's review.
	ErrForbidden = errors.New("forbidden")
)
