/*
Package errs provides custom error types and application-level error code constants.

These codes identify specific business or system errors both internally and
in events sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request or event parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON request or event body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request or message rate exceeded the limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat Business Logic Errors
const (
	// ErrChatLocked indicates a message submission while the chat was locked
	// and the sender held no bypass privilege.
	ErrChatLocked = 2001

	// ErrMessageTooLong indicates that message content exceeded the maximum length.
	ErrMessageTooLong = 2002

	// ErrNotPrivileged indicates a moderation action attempted by an unprivileged session.
	ErrNotPrivileged = 2003
)

// 3xxx: Session and Credential Errors
const (
	// ErrInvalidCredentials indicates a sign-in attempt with a name/secret pair
	// not present in the credential table.
	ErrInvalidCredentials = 3001

	// ErrDuplicateSession indicates a connection identifier that already has a
	// live session. This violates transport semantics and is a server bug.
	ErrDuplicateSession = 3002

	// ErrUnauthorized indicates a request lacking a valid admin token.
	ErrUnauthorized = 3003
)

// 4xxx: Direct-Message Pairing Errors
const (
	// ErrPairingNotFound indicates an accept with an unknown pairing token.
	ErrPairingNotFound = 4001

	// ErrPairingForbidden indicates an accept by a session that is not one of
	// the pairing's two participants.
	ErrPairingForbidden = 4002

	// ErrPairingExpired indicates an accept after the pairing's TTL elapsed.
	ErrPairingExpired = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
