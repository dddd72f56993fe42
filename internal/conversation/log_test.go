package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

type fakeStore struct {
	store.Store
	indexed   []indexedDoc
	hits      []store.Hit
	searchErr error

	lastBody map[string]any
	lastSize int
}

type indexedDoc struct {
	index   string
	id      string
	body    any
	refresh bool
}

func (f *fakeStore) IndexDocument(_ context.Context, index, id string, body any, refresh bool) error {
	f.indexed = append(f.indexed, indexedDoc{index, id, body, refresh})
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ string, body map[string]any, size int) ([]store.Hit, error) {
	f.lastBody = body
	f.lastSize = size
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func messageHit(t *testing.T, msg *models.ConversationMessage) store.Hit {
	t.Helper()
	src, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	return store.Hit{ID: msg.SessionID + msg.Timestamp.String(), Source: src}
}

func TestSaveMessage(t *testing.T) {
	fs := &fakeStore{}
	l := NewLog(fs, "test_conversations", zap.NewNop())

	msg := &models.ConversationMessage{SessionID: "s1", Role: models.RoleUser, Message: "hi"}
	if err := l.SaveMessage(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if len(fs.indexed) != 1 {
		t.Fatalf("indexed %d docs, want 1", len(fs.indexed))
	}
	if fs.indexed[0].id == "" {
		t.Error("message should get a generated id")
	}
	if msg.Timestamp.IsZero() {
		t.Error("missing timestamp should be filled")
	}
}

func TestSaveMessage_emptySession(t *testing.T) {
	l := NewLog(&fakeStore{}, "test_conversations", zap.NewNop())
	if err := l.SaveMessage(context.Background(), &models.ConversationMessage{}); err == nil {
		t.Fatal("expected error for empty session_id")
	}
}

func TestHistory_chronologicalOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// The store returns most-recent-first.
	fs := &fakeStore{hits: []store.Hit{
		messageHit(t, &models.ConversationMessage{SessionID: "s1", Message: "third", Timestamp: base.Add(2 * time.Minute)}),
		messageHit(t, &models.ConversationMessage{SessionID: "s1", Message: "second", Timestamp: base.Add(time.Minute)}),
		messageHit(t, &models.ConversationMessage{SessionID: "s1", Message: "first", Timestamp: base}),
	}}
	l := NewLog(fs, "test_conversations", zap.NewNop())

	msgs, err := l.History(context.Background(), "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Message != "first" || msgs[2].Message != "third" {
		t.Errorf("messages not in chronological order: %s, %s, %s",
			msgs[0].Message, msgs[1].Message, msgs[2].Message)
	}

	sort := fs.lastBody["sort"].([]any)[0].(map[string]any)["timestamp"].(map[string]any)
	if sort["order"] != "desc" {
		t.Errorf("store query should sort desc: %v", sort)
	}
}

func TestHistory_fetchFailureDegradesToEmpty(t *testing.T) {
	fs := &fakeStore{searchErr: errors.New("shard failure")}
	l := NewLog(fs, "test_conversations", zap.NewNop())
	msgs, err := l.History(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("history fetch failure should degrade, got %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("messages = %v, want empty", msgs)
	}
}

func TestHistory_defaultLimit(t *testing.T) {
	fs := &fakeStore{}
	l := NewLog(fs, "test_conversations", zap.NewNop())
	if _, err := l.History(context.Background(), "s1", 0); err != nil {
		t.Fatal(err)
	}
	if fs.lastSize != 10 {
		t.Errorf("size = %d, want default 10", fs.lastSize)
	}
}
