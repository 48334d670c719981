package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/adapter"
	"profitscan-ai/internal/domain/ports/repository"
	"profitscan-ai/internal/infra/metrics"
)

// CalculationUseCase is the margin calculator plus the AI commentary
// flow built on top of it.
type CalculationUseCase interface {
	// Calculate validates the request and computes the margin breakdown.
	Calculate(ctx context.Context, in model.ProductInput) (model.CalculationResult, error)

	// EstimateScanCost returns the per-scan USD estimate for a provider,
	// preferring a stored pricing override over the compiled table.
	EstimateScanCost(ctx context.Context, provider model.AIProvider) (float64, error)

	// Commentary runs one metered AI analysis of the calculation for the
	// account: quota precheck, provider call, consumption, audit event.
	Commentary(ctx context.Context, accountID string, provider model.AIProvider, in model.ProductInput) (string, model.CalculationResult, error)

	// ScanHistory lists the account's recorded scan events, newest first.
	ScanHistory(ctx context.Context, accountID string, limit int) ([]*model.ScanEvent, error)
}

var _ CalculationUseCase = (*calcUC)(nil)

type calcUC struct {
	pricing repository.ProviderPricingRepository
	events  repository.ScanEventRepository
	quota   ScanQuotaUseCase
	ai      adapter.AIServiceAdapter
	log     *zerolog.Logger
}

func NewCalculationUseCase(
	pricing repository.ProviderPricingRepository,
	events repository.ScanEventRepository,
	quota ScanQuotaUseCase,
	ai adapter.AIServiceAdapter,
	logger *zerolog.Logger,
) CalculationUseCase {
	return &calcUC{pricing: pricing, events: events, quota: quota, ai: ai, log: logger}
}

func (c *calcUC) Calculate(_ context.Context, in model.ProductInput) (model.CalculationResult, error) {
	if err := validateInput(in); err != nil {
		return model.CalculationResult{}, err
	}
	return model.CalculateProfit(in), nil
}

// validateInput rejects what the pure calculator assumes away.
func validateInput(in model.ProductInput) error {
	if in.ProductionCost < 0 || in.SalePrice < 0 {
		return domain.ErrInvalidArgument
	}
	if in.FixedCostPercent < 0 || in.FixedCostPercent > 100 {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (c *calcUC) EstimateScanCost(ctx context.Context, provider model.AIProvider) (float64, error) {
	pr, err := c.pricing.FindByProvider(ctx, repository.NoTX, provider)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		def := model.DefaultPricing(provider)
		pr = &def
	}
	return model.EstimateScanCostUSD(*pr), nil
}

const commentarySystemPrompt = "Você é um consultor financeiro para microempreendedores (MEI). " +
	"Analise a margem de lucro do produto e dê um comentário curto e prático em português, " +
	"com no máximo três frases."

func (c *calcUC) Commentary(ctx context.Context, accountID string, provider model.AIProvider, in model.ProductInput) (string, model.CalculationResult, error) {
	res, err := c.Calculate(ctx, in)
	if err != nil {
		return "", model.CalculationResult{}, err
	}

	// Quota precheck: a blocked account never reaches the provider.
	st, err := c.quota.Status(ctx, accountID)
	if err != nil {
		return "", res, err
	}
	if st.LimitReached {
		metrics.IncQuotaBlocked()
		return "", res, domain.ErrQuotaExceeded
	}

	msgs := []adapter.Message{
		{Role: "system", Content: commentarySystemPrompt},
		{Role: "user", Content: commentaryPrompt(in, res)},
	}

	start := time.Now()
	text, usage, err := c.ai.ChatWithUsage(ctx, string(provider), msgs)
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveScanCall(string(provider), 0, 0, 0, latency, false)
		return "", res, fmt.Errorf("ai commentary: %w", err)
	}

	pricing, perr := c.pricing.FindByProvider(ctx, repository.NoTX, provider)
	if perr != nil {
		def := model.DefaultPricing(provider)
		pricing = &def
	}
	costMicros := model.CostMicrosForUsage(*pricing, usage.PromptTokens, usage.CompletionTokens)
	metrics.ObserveScanCall(string(provider), usage.PromptTokens, usage.CompletionTokens, costMicros, latency, true)

	if _, err := c.quota.Consume(ctx, accountID); err != nil {
		// The provider call already happened; losing the increment here
		// would under-count, so surface the failure.
		return "", res, err
	}

	ev := model.NewScanEvent(accountID, provider, usage.PromptTokens, usage.CompletionTokens, costMicros)
	if err := c.events.Append(ctx, repository.NoTX, ev); err != nil {
		c.log.Error().Err(err).Str("account_id", accountID).Msg("scan event append failed")
	}

	return text, res, nil
}

func (c *calcUC) ScanHistory(ctx context.Context, accountID string, limit int) ([]*model.ScanEvent, error) {
	if accountID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return c.events.ListByAccountID(ctx, repository.NoTX, accountID, limit)
}

func commentaryPrompt(in model.ProductInput, res model.CalculationResult) string {
	return fmt.Sprintf(
		"Produto: %s\nCusto de produção: R$ %.2f\nPreço de venda: R$ %.2f\nCustos fixos: %.1f%%\nLucro líquido: R$ %.2f\nMargem: %.1f%%\nPrejuízo: %v",
		in.Name, in.ProductionCost, in.SalePrice, in.FixedCostPercent, res.NetProfit, res.MarginPercent, res.IsLoss,
	)
}
