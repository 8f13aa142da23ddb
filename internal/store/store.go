package store

import (
	"context"

	"github.com/codemarcinu/ageny-online/internal/store/model"
)

// Repository is the main contract for the data layer. The gateway core only
// depends on these interfaces, never on the storage schema.
type Repository interface {
	Requests() RequestRepository
	Conversations() ConversationRepository

	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type RequestRepository interface {
	// Log stores one completed capability call (the result envelope plus
	// request context).
	Log(ctx context.Context, log *model.RequestLog) error
	// GetRecent returns the last N logs, newest first.
	GetRecent(ctx context.Context, limit int) ([]model.RequestLog, error)
	// GetDailyStats aggregates cost and token usage per day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, conv *model.Conversation) error
	Get(ctx context.Context, id string) (*model.Conversation, error)
	List(ctx context.Context, limit int) ([]model.Conversation, error)
	AppendMessage(ctx context.Context, msg *model.Message) error
	Messages(ctx context.Context, conversationID string) ([]model.Message, error)
}
