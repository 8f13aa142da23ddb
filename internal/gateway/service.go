// Package gateway is the capability surface of the router: it dispatches
// chat, embedding, OCR and vector calls through the fallback orchestrators,
// prices the results and records them.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/codemarcinu/ageny-online/internal/analytics"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/modelmap"
	"github.com/codemarcinu/ageny-online/internal/orchestrator"
	"github.com/codemarcinu/ageny-online/internal/store"
	"github.com/codemarcinu/ageny-online/internal/store/model"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"go.uber.org/zap"
)

// Service is the business surface consumed by the HTTP layer.
type Service interface {
	Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error)
	Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error)
	ExtractText(ctx context.Context, req *schema.OCRRequest) (*schema.OCRResponse, error)
	UpsertVectors(ctx context.Context, req *schema.VectorUpsertRequest) (*schema.VectorUpsertResponse, error)
	QueryVectors(ctx context.Context, req *schema.VectorQueryRequest) (*schema.VectorQueryResponse, error)

	ProviderStatus() map[schema.Capability]map[schema.ProviderName]bool
	ListModels(ctx context.Context) map[schema.ProviderName][]string

	Conversations() store.ConversationRepository
	DailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}

type service struct {
	logger *zap.Logger

	llm     *orchestrator.Orchestrator[ports.ChatProvider]
	ocr     *orchestrator.Orchestrator[ports.OCRProvider]
	vectors *orchestrator.Orchestrator[ports.VectorStoreProvider]

	models   *modelmap.Table
	repo     store.Repository
	ingestor analytics.Ingestor
}

func NewService(
	logger *zap.Logger,
	llm *orchestrator.Orchestrator[ports.ChatProvider],
	ocr *orchestrator.Orchestrator[ports.OCRProvider],
	vectors *orchestrator.Orchestrator[ports.VectorStoreProvider],
	models *modelmap.Table,
	repo store.Repository,
	ingestor analytics.Ingestor,
) Service {
	return &service{
		logger:   logger,
		llm:      llm,
		ocr:      ocr,
		vectors:  vectors,
		models:   models,
		repo:     repo,
		ingestor: ingestor,
	}
}

func (s *service) Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
	start := time.Now()

	resp, err := orchestrator.Execute(ctx, s.llm, req.Provider, "chat",
		func(ctx context.Context, p ports.ChatProvider, name schema.ProviderName) (*schema.ChatResponse, error) {
			reqClone := *req
			reqClone.Model = s.models.Resolve(req.Model, name, schema.CapChat)
			return p.Chat(ctx, &reqClone)
		})
	if err != nil {
		return nil, err
	}

	resp.LatencyMS = time.Since(start).Milliseconds()
	resp.CostMicros = s.models.CostMicros(resp.Provider, resp.Model,
		resp.Usage.InputTokens, resp.Usage.OutputTokens)

	s.record(&model.RequestLog{
		ID:              uuid.New().String(),
		Capability:      string(schema.CapChat),
		ProviderID:      string(resp.Provider),
		ModelHint:       req.Model,
		UpstreamModelID: resp.Model,
		ConversationID:  req.ConversationID,
		InputTokens:     resp.Usage.InputTokens,
		OutputTokens:    resp.Usage.OutputTokens,
		LatencyMS:       resp.LatencyMS,
		StatusCode:      200,
		CostMicros:      resp.CostMicros,
	})

	s.persistExchange(ctx, req, resp)
	return resp, nil
}

func (s *service) Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error) {
	start := time.Now()

	resp, err := orchestrator.Execute(ctx, s.llm, req.Provider, "embed",
		func(ctx context.Context, p ports.ChatProvider, name schema.ProviderName) (*schema.EmbedResponse, error) {
			reqClone := *req
			reqClone.Model = s.models.Resolve(req.Model, name, schema.CapEmbed)
			return p.Embed(ctx, &reqClone)
		})
	if err != nil {
		return nil, err
	}

	resp.LatencyMS = time.Since(start).Milliseconds()
	resp.CostMicros = s.models.CostMicros(resp.Provider, resp.Model,
		resp.Usage.InputTokens, 0)

	s.record(&model.RequestLog{
		ID:              uuid.New().String(),
		Capability:      string(schema.CapEmbed),
		ProviderID:      string(resp.Provider),
		ModelHint:       req.Model,
		UpstreamModelID: resp.Model,
		InputTokens:     resp.Usage.InputTokens,
		LatencyMS:       resp.LatencyMS,
		StatusCode:      200,
		CostMicros:      resp.CostMicros,
	})
	return resp, nil
}

func (s *service) ExtractText(ctx context.Context, req *schema.OCRRequest) (*schema.OCRResponse, error) {
	start := time.Now()

	resp, err := orchestrator.Execute(ctx, s.ocr, req.Provider, "extract_text",
		func(ctx context.Context, p ports.OCRProvider, name schema.ProviderName) (*schema.OCRResponse, error) {
			reqClone := *req
			reqClone.Model = s.models.Resolve(req.Model, name, schema.CapExtractText)
			return p.ExtractText(ctx, &reqClone)
		})
	if err != nil {
		return nil, err
	}

	resp.LatencyMS = time.Since(start).Milliseconds()
	resp.CostMicros = s.models.CostMicros(resp.Provider, resp.Model,
		resp.Usage.InputTokens, resp.Usage.OutputTokens)

	s.record(&model.RequestLog{
		ID:              uuid.New().String(),
		Capability:      string(schema.CapExtractText),
		ProviderID:      string(resp.Provider),
		ModelHint:       req.Model,
		UpstreamModelID: resp.Model,
		InputTokens:     resp.Usage.InputTokens,
		OutputTokens:    resp.Usage.OutputTokens,
		LatencyMS:       resp.LatencyMS,
		StatusCode:      200,
		CostMicros:      resp.CostMicros,
	})
	return resp, nil
}

func (s *service) UpsertVectors(ctx context.Context, req *schema.VectorUpsertRequest) (*schema.VectorUpsertResponse, error) {
	start := time.Now()

	resp, err := orchestrator.Execute(ctx, s.vectors, req.Provider, "vector_upsert",
		func(ctx context.Context, p ports.VectorStoreProvider, name schema.ProviderName) (*schema.VectorUpsertResponse, error) {
			return p.Upsert(ctx, req)
		})
	if err != nil {
		return nil, err
	}

	resp.LatencyMS = time.Since(start).Milliseconds()

	s.record(&model.RequestLog{
		ID:          uuid.New().String(),
		Capability:  string(schema.CapVectorUpsert),
		ProviderID:  string(resp.Provider),
		InputTokens: resp.UpsertedCount,
		LatencyMS:   resp.LatencyMS,
		StatusCode:  200,
	})
	return resp, nil
}

func (s *service) QueryVectors(ctx context.Context, req *schema.VectorQueryRequest) (*schema.VectorQueryResponse, error) {
	start := time.Now()

	resp, err := orchestrator.Execute(ctx, s.vectors, req.Provider, "vector_query",
		func(ctx context.Context, p ports.VectorStoreProvider, name schema.ProviderName) (*schema.VectorQueryResponse, error) {
			return p.Query(ctx, req)
		})
	if err != nil {
		return nil, err
	}

	resp.LatencyMS = time.Since(start).Milliseconds()

	s.record(&model.RequestLog{
		ID:         uuid.New().String(),
		Capability: string(schema.CapVectorQuery),
		ProviderID: string(resp.Provider),
		LatencyMS:  resp.LatencyMS,
		StatusCode: 200,
	})
	return resp, nil
}

// ProviderStatus reports configuration state across all capability families.
func (s *service) ProviderStatus() map[schema.Capability]map[schema.ProviderName]bool {
	return map[schema.Capability]map[schema.ProviderName]bool{
		schema.CapChat:         s.llm.Registry().Status(),
		schema.CapExtractText:  s.ocr.Registry().Status(),
		schema.CapVectorUpsert: s.vectors.Registry().Status(),
	}
}

// ListModels aggregates model identifiers across configured LLM and OCR
// providers. Adapters that fail to construct are skipped; Models itself
// never fails.
func (s *service) ListModels(ctx context.Context) map[schema.ProviderName][]string {
	out := make(map[schema.ProviderName][]string)

	for _, name := range s.llm.Registry().FallbackOrder() {
		if p, err := s.llm.Registry().GetOrCreate(name); err == nil {
			out[name] = p.Models()
		}
	}
	for _, name := range s.ocr.Registry().FallbackOrder() {
		if p, err := s.ocr.Registry().GetOrCreate(name); err == nil {
			out[name] = p.Models()
		}
	}
	return out
}

func (s *service) Conversations() store.ConversationRepository {
	return s.repo.Conversations()
}

func (s *service) DailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	return s.repo.Requests().GetDailyStats(ctx, days)
}

func (s *service) record(log *model.RequestLog) {
	if s.ingestor != nil {
		s.ingestor.Log(log)
	}
}

// persistExchange stores both sides of a chat turn when the request names a
// conversation. Persistence failures are logged, never surfaced.
func (s *service) persistExchange(ctx context.Context, req *schema.ChatRequest, resp *schema.ChatResponse) {
	if req.ConversationID == "" || s.repo == nil || len(req.Messages) == 0 {
		return
	}

	last := req.Messages[len(req.Messages)-1]
	userMsg := &model.Message{
		ID:             uuid.New().String(),
		ConversationID: req.ConversationID,
		Role:           last.Role,
		Content:        last.Content,
	}
	assistantMsg := &model.Message{
		ID:             uuid.New().String(),
		ConversationID: req.ConversationID,
		Role:           "assistant",
		Content:        resp.Text,
		ProviderID:     string(resp.Provider),
	}

	for _, msg := range []*model.Message{userMsg, assistantMsg} {
		if err := s.repo.Conversations().AppendMessage(ctx, msg); err != nil {
			s.logger.Warn("failed to persist conversation message",
				zap.String("conversation_id", req.ConversationID), zap.Error(err))
			return
		}
	}
}
