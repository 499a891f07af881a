// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are stable, lowercase snake_case strings returned in the `code` field
// of every error envelope; `message` carries the human-readable text. Clients
// branch on codes, not messages.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "already_taken",
//	  "message": "Task already taken"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeEmailTaken       = "email_taken"
	ErrCodeBadCredentials   = "bad_credentials"
	ErrCodeAlreadyTaken     = "already_taken"
	ErrCodeNotAssigned      = "not_assigned"
	ErrCodeInvalidState     = "invalid_state"
	ErrCodeNotEligible      = "not_eligible"
	ErrCodeValidationFailed = "validation_failed"
)
