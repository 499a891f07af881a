package repo

import (
	"context"
	"testing"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

func TestChatMessages_OrderCountAndPage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := mustUser(t, db, domain.RoleCustomer)
	h := mustUser(t, db, domain.RoleHelper)
	task := mustTask(t, db, c.ID, "T")
	chat, err := CreateChat(ctx, db, task.ID, c.ID, h.ID)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	texts := []string{"hi", "on my way", "thanks"}
	for i, txt := range texts {
		sender, role := c.ID, domain.RoleCustomer
		if i%2 == 1 {
			sender, role = h.ID, domain.RoleHelper
		}
		if _, err := CreateChatMessage(ctx, db, chat.ID, sender, role, txt); err != nil {
			t.Fatalf("CreateChatMessage: %v", err)
		}
	}

	all, err := ListChatMessages(ctx, db, chat.ID)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListChatMessages: n=%d err=%v", len(all), err)
	}
	for i, m := range all {
		if m.Message != texts[i] {
			t.Fatalf("order mismatch at %d: %q", i, m.Message)
		}
	}
	if all[1].SenderRole != domain.RoleHelper {
		t.Fatalf("sender role not recorded: %+v", all[1])
	}

	n, err := CountChatMessages(ctx, db, chat.ID)
	if err != nil || n != 3 {
		t.Fatalf("CountChatMessages: %d err=%v", n, err)
	}
	page, err := ListChatMessagesPage(ctx, db, chat.ID, 1, 2)
	if err != nil || len(page) != 2 || page[0].Message != "on my way" {
		t.Fatalf("ListChatMessagesPage: %+v err=%v", page, err)
	}
	got, err := GetChatMessage(ctx, db, all[2].ID)
	if err != nil || got.Message != "thanks" {
		t.Fatalf("GetChatMessage: %+v err=%v", got, err)
	}
}
