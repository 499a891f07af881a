// Package services implements the marketplace use-cases: accounts, the task
// lifecycle, assignments, reviews, notifications and task chats.
//
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
// Translation into user-facing messages and HTTP status codes happens in
// the handler layer.
package services

import "errors"

// Account errors.
var (
	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrUserNotFound is returned by Login for an unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned by Login when the password does not match.
	ErrWrongPassword = errors.New("wrong password")

	// ErrInvalidRole is returned when registering with an unknown role.
	ErrInvalidRole = errors.New("role must be customer or helper")

	// ErrInvalidCredentials is returned when email or password is blank.
	ErrInvalidCredentials = errors.New("email and password are required")
)

// Task lifecycle errors.
var (
	// ErrTaskNotFound indicates the task does not exist or is not visible
	// to the caller.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAlreadyTaken is returned when accepting a task that is no longer open.
	ErrAlreadyTaken = errors.New("task already taken")

	// ErrNotAssignedToYou is returned when a helper acts on a task that is
	// assigned to someone else (or to nobody).
	ErrNotAssignedToYou = errors.New("task is not assigned to you")

	// ErrInvalidTransition is returned when a task is not in the state the
	// requested transition starts from.
	ErrInvalidTransition = errors.New("task is not in a state that allows this action")

	// ErrInvalidUrgency is returned for urgency values outside the known set.
	ErrInvalidUrgency = errors.New("urgency must be one of emergency, immediate, today, tomorrow, week, flexible")

	// ErrInvalidReward is returned for negative or oversized reward amounts.
	ErrInvalidReward = errors.New("reward_amount must be between 0 and 99999999.99")
)

// Review errors.
var (
	// ErrNotEligible is returned when a review's preconditions do not hold.
	// It is wrapped with the failing condition.
	ErrNotEligible = errors.New("task not eligible for review")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")
)

// Notification and chat errors.
var (
	// ErrNotificationNotFound indicates an unknown notification ID.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrChatNotFound indicates an unknown chat ID.
	ErrChatNotFound = errors.New("chat not found")

	// ErrMessageNotFound indicates a message ID outside the given chat.
	ErrMessageNotFound = errors.New("message not found")

	// ErrForbidden is returned when the caller is not a participant of the
	// chat or task they are acting on.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyMessage is returned when sending a blank chat message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat message exceeds the limit.
	ErrMessageTooLong = errors.New("message too long")
)
