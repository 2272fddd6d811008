/*
Package resp provides helpers for sending standardized HTTP JSON responses.

Every response carries a business code, a message, and an optional payload,
matching the code taxonomy in the errs package.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

// JSONResponse is the standardized JSON response envelope.
type JSONResponse struct {
	// Code is the business status code (0 for success; see the errs package).
	Code int `json:"code"`

	// Message is the client-friendly status description.
	Message string `json:"message"`

	// Data is the optional response payload.
	Data any `json:"data,omitempty"`
}

// RespondJSON writes payload as JSON with the given HTTP status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful response (HTTP 200 OK).
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	res := JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	RespondJSON(w, r, http.StatusOK, res)
}

// RespondError sends a response describing a CustomError.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	res := JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	}
	RespondJSON(w, r, customErr.Status, res)
}
