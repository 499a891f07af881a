package handlers

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/services"
)

// looseString accepts a JSON string, number or null. Clients send
// reward_amount either way.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*s = looseString(n.String())
	}
	return nil
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	FullName string `json:"full_name" example:"Wanjiru Kamau"`
	Email    string `json:"email" binding:"required" example:"wanjiru@example.com"`
	Phone    string `json:"phone" example:"+254712345678"`
	Password string `json:"password" binding:"required" example:"s3cret"`
	// Role is customer (default) or helper.
	Role string `json:"role" example:"customer"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message" example:"User registered"`
	UserID  string `json:"user_id"`
	Token   string `json:"token"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the user profile.
type LoginResponse struct {
	Message string       `json:"message" example:"Login successful"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// TaskRequest is the create/update payload. Title is optional and derived
// from category and problem fields when blank.
type TaskRequest struct {
	Title           string      `json:"title" example:"Car - Flat tyre"`
	Category        string      `json:"category" example:"Car"`
	Component       string      `json:"component" example:"Wheel"`
	MechanicProblem string      `json:"mechanicProblem" example:"Flat tyre"`
	SpecificProblem string      `json:"specific_problem"`
	Description     string      `json:"description" example:"Rear left tyre is flat"`
	Location        string      `json:"location" example:"Westlands, Nairobi"`
	Urgency         string      `json:"urgency" example:"today"`
	RewardAmount    looseString `json:"reward_amount" swaggertype:"string" example:"500"`
}

func (r TaskRequest) input() services.TaskInput {
	problem := r.SpecificProblem
	if strings.TrimSpace(problem) == "" {
		problem = r.MechanicProblem
	}
	return services.TaskInput{
		Title:           r.Title,
		Category:        r.Category,
		Component:       r.Component,
		SpecificProblem: problem,
		Description:     r.Description,
		Location:        r.Location,
		Urgency:         r.Urgency,
		RewardAmount:    string(r.RewardAmount),
	}
}

// CreateTaskResponse is returned after a task is created.
type CreateTaskResponse struct {
	Message string `json:"message" example:"Task created"`
	TaskID  string `json:"task_id"`
}

// ReviewRequest is the review payload.
type ReviewRequest struct {
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment" example:"Quick and friendly"`
}

// ReviewResponse is returned after a review is stored.
type ReviewResponse struct {
	Message  string `json:"message" example:"Review submitted"`
	ReviewID string `json:"review_id"`
}

// StartChatRequest names the task to chat about.
type StartChatRequest struct {
	TaskID string `json:"task_id" binding:"required"`
}

// StartChatResponse returns the (possibly pre-existing) chat.
type StartChatResponse struct {
	ChatID string       `json:"chat_id"`
	Chat   *domain.Chat `json:"chat"`
}

// SendMessageRequest is a chat message payload.
type SendMessageRequest struct {
	Message string `json:"message" example:"I'm on my way"`
}

// SendMessageResponse returns the stored message.
type SendMessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

// ListNotificationsResponse is the paged notifications listing.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Pagination    Pagination            `json:"pagination"`
}

// ListMessagesResponse is the paged chat messages listing.
type ListMessagesResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}
