// Package domain defines the persistence models of the marketplace: users,
// tasks, assignments, reviews, notifications and task chats. These types
// are mapped with GORM and shared by the repository and service layers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered account. Role is fixed at registration.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - FullName / Phone: profile data supplied at registration.
//   - Email: login identifier, case-folded, unique.
//   - PasswordHash: bcrypt hash; never serialized.
//   - Role: customer or helper (enforced by DB constraint).
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	FullName     string    `json:"full_name"  gorm:"type:varchar(100);not null"`
	Email        string    `json:"email"      gorm:"type:varchar(100);not null;uniqueIndex:ux_users_email"`
	Phone        string    `json:"phone"      gorm:"type:varchar(20)"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(255);not null"`
	Role         Role      `json:"role"       gorm:"type:varchar(16);not null;default:'customer';check:role IN ('customer','helper')"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Task is a help request posted by a customer. Status only moves forward
// along open -> assigned -> completed.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - OwnerID: the customer who posted the task (indexed).
//   - Title: explicit or derived from category and problem fields.
//   - Description / Location: free text.
//   - RewardAmount: non-negative fixed-point amount (10,2).
//   - Urgency: one of the Urgency values, default today.
//   - Status: open, assigned or completed (indexed for the open-task feed).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - Owner: FK association; deleting a user removes their tasks.
type Task struct {
	ID           string          `json:"id"            gorm:"type:char(36);primaryKey"`
	OwnerID      string          `json:"owner_id"      gorm:"type:char(36);not null;index:idx_tasks_owner"`
	Title        string          `json:"title"         gorm:"type:varchar(255);not null"`
	Description  string          `json:"description"   gorm:"type:text"`
	Location     string          `json:"location"      gorm:"type:varchar(255)"`
	RewardAmount decimal.Decimal `json:"reward_amount" gorm:"type:decimal(10,2);not null;default:0"`
	Urgency      Urgency         `json:"urgency"       gorm:"type:varchar(16);not null;default:'today';check:urgency IN ('emergency','immediate','today','tomorrow','week','flexible')"`
	Status       TaskStatus      `json:"status"        gorm:"type:varchar(16);not null;default:'open';index:idx_tasks_status;check:status IN ('open','assigned','completed')"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string { return "tasks" }

// Assignment binds a helper to a task. The unique index on task_id allows
// at most one assignment per task; rows are never updated.
type Assignment struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	TaskID     string    `json:"task_id"     gorm:"type:char(36);not null;uniqueIndex:ux_assignments_task"`
	HelperID   string    `json:"helper_id"   gorm:"type:char(36);not null;index:idx_assignments_helper"`
	AssignedAt time.Time `json:"assigned_at" gorm:"autoCreateTime"`

	Task   Task `json:"-" gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Helper User `json:"-" gorm:"foreignKey:HelperID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Assignment.
func (Assignment) TableName() string { return "task_assignments" }

// Review is a customer's rating of the helper on a completed task.
//
// Fields:
//   - Rating: integer in [1,5] (enforced by DB constraint and service check).
//   - Comment: optional free text.
type Review struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	TaskID     string    `json:"task_id"     gorm:"type:char(36);not null;index:idx_reviews_task"`
	HelperID   string    `json:"helper_id"   gorm:"type:char(36);not null;index:idx_reviews_helper"`
	CustomerID string    `json:"customer_id" gorm:"type:char(36);not null"`
	Rating     int       `json:"rating"      gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment    string    `json:"comment"     gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`

	Task Task `json:"-" gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// Notification is an in-app message addressed to one user. TaskID is
// cleared when the referenced task is deleted.
type Notification struct {
	ID        string           `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string           `json:"user_id"    gorm:"type:char(36);not null;index:idx_notifications_user,priority:1"`
	TaskID    *string          `json:"task_id"    gorm:"type:char(36)"`
	Type      NotificationType `json:"type"       gorm:"type:varchar(50);not null"`
	Title     string           `json:"title"      gorm:"type:varchar(255);not null"`
	Message   string           `json:"message"    gorm:"type:text;not null"`
	IsRead    bool             `json:"is_read"    gorm:"not null;default:false"`
	CreatedAt time.Time        `json:"created_at" gorm:"index:idx_notifications_user,priority:2"`

	User User  `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Task *Task `json:"-" gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// Chat is a conversation between a task's owner and its assigned helper.
// There is at most one chat per (task, customer, helper).
type Chat struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	TaskID     string    `json:"task_id"     gorm:"type:char(36);not null;uniqueIndex:ux_chats_participants,priority:1"`
	CustomerID string    `json:"customer_id" gorm:"type:char(36);not null;uniqueIndex:ux_chats_participants,priority:2;index:idx_chats_customer"`
	HelperID   string    `json:"helper_id"   gorm:"type:char(36);not null;uniqueIndex:ux_chats_participants,priority:3;index:idx_chats_helper"`
	CreatedAt  time.Time `json:"created_at"`

	Task Task `json:"-" gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// HasParticipant reports whether userID is the chat's customer or helper.
func (c Chat) HasParticipant(userID string) bool {
	return userID != "" && (c.CustomerID == userID || c.HelperID == userID)
}

// Counterpart returns the participant that is not userID.
func (c Chat) Counterpart(userID string) string {
	if c.CustomerID == userID {
		return c.HelperID
	}
	return c.CustomerID
}

// ChatMessage is a single message within a chat. SenderRole records the
// sender's role at the time of sending.
//
// Fields:
//   - ChatID: owning chat (indexed with CreatedAt for ordered reads).
//   - SenderID / SenderRole: author identity.
//   - Message: non-blank text.
//   - Chat: FK association, messages are cascade-deleted with their chat.
type ChatMessage struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ChatID     string    `json:"chat_id"     gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	SenderID   string    `json:"sender_id"   gorm:"type:char(36);not null"`
	SenderRole Role      `json:"sender_role" gorm:"type:varchar(16);not null;check:sender_role IN ('customer','helper')"`
	Message    string    `json:"message"     gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"  gorm:"index:idx_chat_msgs,priority:2"`
	UpdatedAt  time.Time `json:"updated_at"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// Models lists every persisted type in dependency order, for migrations.
func Models() []any {
	return []any{
		&User{}, &Task{}, &Assignment{}, &Review{},
		&Notification{}, &Chat{}, &ChatMessage{}, &Idempotency{},
	}
}
