package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/codemarcinu/ageny-online/internal/store"
	"github.com/codemarcinu/ageny-online/internal/store/model"
)

// DB is satisfied by both *sqlx.DB and *sqlx.Tx so repositories run inside
// or outside a transaction unchanged.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository.
type SqliteRepository struct {
	db       *sqlx.DB
	executor DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{db: db, executor: db}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{db: r.db, executor: tx}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *SqliteRepository) Requests() store.RequestRepository {
	return &requestRepo{db: r.executor}
}

func (r *SqliteRepository) Conversations() store.ConversationRepository {
	return &conversationRepo{db: r.executor}
}

type requestRepo struct {
	db DB
}

func (r *requestRepo) Log(ctx context.Context, log *model.RequestLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	query := `
	INSERT INTO request_logs (
		id, capability, provider_id, model_hint, upstream_model_id,
		conversation_id, input_tokens, output_tokens, latency_ms,
		status_code, cost_micros, created_at
	) VALUES (
		:id, :capability, :provider_id, :model_hint, :upstream_model_id,
		:conversation_id, :input_tokens, :output_tokens, :latency_ms,
		:status_code, :cost_micros, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}

func (r *requestRepo) GetRecent(ctx context.Context, limit int) ([]model.RequestLog, error) {
	var logs []model.RequestLog
	err := r.db.SelectContext(ctx, &logs,
		`SELECT * FROM request_logs ORDER BY created_at DESC LIMIT ?`, limit)
	return logs, err
}

func (r *requestRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
	SELECT
		date(created_at) AS day,
		COUNT(*) AS requests,
		COALESCE(SUM(input_tokens), 0) AS input_tokens,
		COALESCE(SUM(output_tokens), 0) AS output_tokens,
		COALESCE(SUM(cost_micros), 0) AS cost_micros
	FROM request_logs
	WHERE created_at >= date('now', ?)
	GROUP BY date(created_at)
	ORDER BY day DESC`
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}

type conversationRepo struct {
	db DB
}

func (r *conversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	now := time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	query := `
	INSERT INTO conversations (id, title, created_at, updated_at)
	VALUES (:id, :title, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, conv)
	return err
}

func (r *conversationRepo) Get(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) List(ctx context.Context, limit int) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.db.SelectContext(ctx, &convs,
		`SELECT * FROM conversations ORDER BY updated_at DESC LIMIT ?`, limit)
	return convs, err
}

func (r *conversationRepo) AppendMessage(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	query := `
	INSERT INTO messages (id, conversation_id, role, content, provider_id, created_at)
	VALUES (:id, :conversation_id, :role, :content, :provider_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, msg.CreatedAt, msg.ConversationID)
	return err
}

func (r *conversationRepo) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT * FROM messages WHERE conversation_id = ? ORDER BY created_at ASC`, conversationID)
	return msgs, err
}
