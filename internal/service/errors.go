package service

import "errors"

// Sentinel errors shared across services. Handlers translate these to HTTP
// status codes with errors.Is; services attach the offending identities with
// fmt.Errorf("%w: ...") so the boundary can render a specific message.
var (
	// ErrNotFound indicates the referenced request, friendship or record
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyFriends indicates a request was sent between users who are
	// already friends.
	ErrAlreadyFriends = errors.New("already friends")

	// ErrDuplicateRequest indicates a pending request already exists between
	// the pair, in either direction.
	ErrDuplicateRequest = errors.New("friend request already pending")

	// ErrSelfRequest indicates a user tried to friend themselves.
	ErrSelfRequest = errors.New("cannot send friend request to yourself")

	// ErrNotAuthorized indicates the actor is not the legitimate sender or
	// recipient for the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrDependency indicates a failure propagated from a storage or
	// content collaborator, including timeouts.
	ErrDependency = errors.New("dependency failure")

	// ErrContentRejected indicates moderation rejected the submitted text.
	ErrContentRejected = errors.New("content rejected by moderation")

	// ErrPastScheduleTime indicates a message was scheduled for a time that
	// has already passed.
	ErrPastScheduleTime = errors.New("scheduled time must be in the future")
)
