// Package conversation persists chat history in the conversations index.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

// Log is an append-only conversation log keyed by session. The document store
// owns the messages; the log holds no local copy.
type Log struct {
	store  store.Store
	index  string
	logger *zap.Logger
}

// NewLog creates a conversation log over the given index.
func NewLog(s store.Store, index string, logger *zap.Logger) *Log {
	return &Log{store: s, index: index, logger: logger}
}

// SaveMessage appends one message. A missing timestamp is filled with the
// current time.
func (l *Log) SaveMessage(ctx context.Context, msg *models.ConversationMessage) error {
	if msg.SessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	id := uuid.NewString()
	if err := l.store.IndexDocument(ctx, l.index, id, msg, false); err != nil {
		return fmt.Errorf("save conversation message: %w", err)
	}
	l.logger.Debug("saved conversation message",
		zap.String("session_id", msg.SessionID),
		zap.String("role", msg.Role))
	return nil
}

// History returns up to limit messages for the session in chronological
// order. The store is queried most-recent-first so the limit keeps the newest
// messages, then the page is reversed. A fetch failure degrades to an empty
// history rather than failing the caller's request.
func (l *Log) History(ctx context.Context, sessionID string, limit int) ([]*models.ConversationMessage, error) {
	if limit <= 0 {
		limit = 10
	}
	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"session_id": sessionID},
		},
		"sort": []any{
			map[string]any{"timestamp": map[string]any{"order": "desc"}},
		},
	}
	hits, err := l.store.Search(ctx, l.index, body, limit)
	if err != nil {
		l.logger.Error("failed to retrieve conversation history",
			zap.String("session_id", sessionID), zap.Error(err))
		return []*models.ConversationMessage{}, nil
	}

	messages := make([]*models.ConversationMessage, 0, len(hits))
	for i := len(hits) - 1; i >= 0; i-- {
		var msg models.ConversationMessage
		if err := json.Unmarshal(hits[i].Source, &msg); err != nil {
			l.logger.Warn("skipping unparseable message", zap.String("id", hits[i].ID), zap.Error(err))
			continue
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}
