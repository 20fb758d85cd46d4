package services

import (
	"context"
	"testing"

	"rewards/models"
	"rewards/testutil"
)

func TestInboxListAndMarkRead(t *testing.T) {
	db := testutil.NewDB(t)
	inbox := NewInboxService(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "nora", "0", nil)
	other := testutil.CreateUser(t, db, "otto", "0", nil)

	for _, msg := range []string{"first", "second", "third"} {
		db.Create(&models.Notification{UserID: user.ID, Message: msg})
	}
	db.Create(&models.Notification{UserID: other.ID, Message: "not yours"})

	items, total, unread, err := inbox.List(ctx, user.ID, 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || unread != 3 || len(items) != 2 {
		t.Fatalf("total=%d unread=%d items=%d", total, unread, len(items))
	}
	if items[0].Message != "third" {
		t.Errorf("newest first: got %q", items[0].Message)
	}

	updated, err := inbox.MarkAllRead(ctx, user.ID)
	if err != nil || updated != 3 {
		t.Fatalf("MarkAllRead = %d, %v", updated, err)
	}
	_, _, unread, _ = inbox.List(ctx, user.ID, 0, 10)
	if unread != 0 {
		t.Errorf("unread after mark = %d", unread)
	}
	_, _, otherUnread, _ := inbox.List(ctx, other.ID, 0, 10)
	if otherUnread != 1 {
		t.Errorf("other user's unread = %d, want 1", otherUnread)
	}
}
