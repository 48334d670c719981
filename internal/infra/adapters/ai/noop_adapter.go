package ai

import (
	"context"
	"strings"

	"profitscan-ai/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAdapter)(nil)

// NoopAdapter serves canned commentary for local development, so the
// full scan flow works without vendor keys.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (NoopAdapter) CountTokens(_ context.Context, _ string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(strings.Fields(m.Content))
	}
	return n, nil
}

func (NoopAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := NoopAdapter{}.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (NoopAdapter) ChatWithUsage(_ context.Context, _ string, messages []adapter.Message) (string, adapter.Usage, error) {
	in := 0
	for _, m := range messages {
		in += len(strings.Fields(m.Content))
	}
	reply := "Sua margem foi calculada. Revise seus custos fixos e compare o preço praticado com o mercado."
	return reply, adapter.Usage{
		PromptTokens:     in,
		CompletionTokens: len(strings.Fields(reply)),
		TotalTokens:      in + len(strings.Fields(reply)),
	}, nil
}
