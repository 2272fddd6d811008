/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template, standardizing
messages and HTTP status codes.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat Business Logic Errors
	ErrChatLocked:     {Code: ErrChatLocked, Message: "The chat is currently locked."},
	ErrMessageTooLong: {Code: ErrMessageTooLong, Message: "Message is too long."},
	ErrNotPrivileged:  {Code: ErrNotPrivileged, Message: "You are not allowed to perform this action."},

	// 3xxx: Session and Credential Errors
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect name or secret.", Status: http.StatusUnauthorized},
	ErrDuplicateSession:   {Code: ErrDuplicateSession, Message: "Session already exists for this connection."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 4xxx: Direct-Message Pairing Errors
	ErrPairingNotFound:  {Code: ErrPairingNotFound, Message: "Unknown direct-message invitation."},
	ErrPairingForbidden: {Code: ErrPairingForbidden, Message: "This invitation is not addressed to you."},
	ErrPairingExpired:   {Code: ErrPairingExpired, Message: "This invitation has expired."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
