package messages_test

import (
	"testing"
	"time"

	"github.com/wabridge/wa-relay-api/accounts"
	"github.com/wabridge/wa-relay-api/internal/test"
	"github.com/wabridge/wa-relay-api/messages"
)

func TestLogAndList(t *testing.T) {
	cfg := test.LoadConfig(t)
	db := test.GetDatabase(t, cfg)

	// Messages reference accounts
	a1 := accounts.Account{AccountName: "Sales", PhoneNumber: "15550001111", APIKey: "k1"}
	a2 := accounts.Account{AccountName: "Support", PhoneNumber: "15550002222", APIKey: "k2"}
	if err := db.Create(&a1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&a2).Error; err != nil {
		t.Fatal(err)
	}

	svc := messages.NewService(messages.NewGormStore(db))

	before := time.Now().Add(-time.Second)

	m, err := svc.LogSent("15551234567", "hello", a1.ID)
	if err != nil {
		t.Fatal(err)
	}

	if m.ID == 0 {
		t.Error("expected the message to get an id")
	}
	if m.Type != messages.TypeSent {
		t.Errorf("expected type %q, got %q", messages.TypeSent, m.Type)
	}
	if m.Timestamp.Before(before) {
		t.Errorf("expected timestamp to be set, got %s", m.Timestamp)
	}

	if _, err := svc.LogSent("15557654321", "hi there", a2.ID); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(0, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(all))
	}
	if all[0].Content != "hi there" {
		t.Errorf("expected newest message first, got %q", all[0].Content)
	}

	filtered, err := svc.List(0, 0, &a1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Phone != "15551234567" {
		t.Errorf("expected only the first account's message, got %+v", filtered)
	}
	if filtered[0].AccountID == nil || *filtered[0].AccountID != a1.ID {
		t.Errorf("expected account id %d, got %v", a1.ID, filtered[0].AccountID)
	}
}

func TestTypeCheckConstraint(t *testing.T) {
	cfg := test.LoadConfig(t)
	db := test.GetDatabase(t, cfg)

	store := messages.NewGormStore(db)
	err := store.InsertMessage(&messages.Message{Type: "forwarded", Phone: "15551234567"})
	if err == nil {
		t.Fatal("expected the type check constraint to reject the message")
	}
}
