package repo

import (
	"context"
	"testing"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

func TestNotificationsStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u := mustUser(t, db, domain.RoleCustomer)

	count, unread, latest, err := NotificationsStats(ctx, db, u.ID)
	if err != nil || count != 0 || unread != 0 || latest != nil {
		t.Fatalf("empty stats: %d %d %v err=%v", count, unread, latest, err)
	}

	n1 := &domain.Notification{UserID: u.ID, Type: domain.NotifyAccepted, Title: "a", Message: "a"}
	n2 := &domain.Notification{UserID: u.ID, Type: domain.NotifyCompleted, Title: "b", Message: "b"}
	for _, n := range []*domain.Notification{n1, n2} {
		if err := CreateNotification(ctx, db, n); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}
	if err := MarkNotificationRead(ctx, db, n1.ID); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}

	count, unread, latest, err = NotificationsStats(ctx, db, u.ID)
	if err != nil || count != 2 || unread != 1 || latest == nil || latest.IsZero() {
		t.Fatalf("stats: %d %d %v err=%v", count, unread, latest, err)
	}
}

func TestChatMessagesStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := mustUser(t, db, domain.RoleCustomer)
	h := mustUser(t, db, domain.RoleHelper)
	task := mustTask(t, db, c.ID, "T")
	chat, err := CreateChat(ctx, db, task.ID, c.ID, h.ID)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	if n, ts, err := ChatMessagesStats(ctx, db, chat.ID); err != nil || n != 0 || ts != nil {
		t.Fatalf("empty: %d %v err=%v", n, ts, err)
	}
	_, err = CreateChatMessage(ctx, db, chat.ID, c.ID, domain.RoleCustomer, "hello")
	if err != nil {
		t.Fatalf("CreateChatMessage: %v", err)
	}
	n, ts, err := ChatMessagesStats(ctx, db, chat.ID)
	if err != nil || n != 1 || ts == nil || ts.IsZero() {
		t.Fatalf("stats: %d %v err=%v", n, ts, err)
	}
}
