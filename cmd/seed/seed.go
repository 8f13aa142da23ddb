// Seed creates a demo conversation so the history endpoints have something to
// show on a fresh database.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/codemarcinu/ageny-online/internal/platform/logger"
	"github.com/codemarcinu/ageny-online/internal/store/model"
	"github.com/codemarcinu/ageny-online/internal/store/sqlite"
)

func main() {
	logger.Initialize(logger.DefaultConfig())
	repo, err := sqlite.NewSQLiteStorage("ageny.db", logger.Get())
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	convID := uuid.New().String()
	conv := &model.Conversation{
		ID:    convID,
		Title: "Demo conversation",
	}
	if err := repo.Conversations().Create(ctx, conv); err != nil {
		log.Fatal(err)
	}

	messages := []*model.Message{
		{
			ID:             uuid.New().String(),
			ConversationID: convID,
			Role:           "user",
			Content:        "What can this gateway do?",
		},
		{
			ID:             uuid.New().String(),
			ConversationID: convID,
			Role:           "assistant",
			Content:        "Chat, embeddings, OCR and vector search across multiple providers with automatic fallback.",
			ProviderID:     "openai",
		},
	}
	for _, msg := range messages {
		if err := repo.Conversations().AppendMessage(ctx, msg); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Seeded conversation %s with %d messages\n", convID, len(messages))
}
