package domain

import "strings"

// Role is the fixed account type chosen at registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleHelper   Role = "helper"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleCustomer || r == RoleHelper }

// ParseRole maps user input to a Role. Empty input yields RoleCustomer.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleCustomer, true
	}
	r := Role(s)
	return r, r.Valid()
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusOpen      TaskStatus = "open"
	StatusAssigned  TaskStatus = "assigned"
	StatusCompleted TaskStatus = "completed"
)

// CanTransitionTo reports whether moving from s to next is a legal,
// forward-only lifecycle step.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case StatusOpen:
		return next == StatusAssigned
	case StatusAssigned:
		return next == StatusCompleted
	}
	return false
}

// Urgency expresses how soon a customer needs help.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyImmediate Urgency = "immediate"
	UrgencyToday     Urgency = "today"
	UrgencyTomorrow  Urgency = "tomorrow"
	UrgencyWeek      Urgency = "week"
	UrgencyFlexible  Urgency = "flexible"
)

// ParseUrgency maps user input to an Urgency. Empty input yields UrgencyToday.
func ParseUrgency(s string) (Urgency, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch u := Urgency(s); u {
	case "":
		return UrgencyToday, true
	case UrgencyEmergency, UrgencyImmediate, UrgencyToday, UrgencyTomorrow, UrgencyWeek, UrgencyFlexible:
		return u, true
	}
	return "", false
}

// NotificationType classifies notifications by the event that produced them.
type NotificationType string

const (
	NotifyAccepted    NotificationType = "accepted"
	NotifyCompleted   NotificationType = "completed"
	NotifyReview      NotificationType = "review"
	NotifyChatMessage NotificationType = "chat_message"
)
