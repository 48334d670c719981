//go:build !integration

package web

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/usecase"
)

// --- Mock Use Cases ---

type mockCalcUC struct {
	CalculateFunc  func(ctx context.Context, in model.ProductInput) (model.CalculationResult, error)
	EstimateFunc   func(ctx context.Context, provider model.AIProvider) (float64, error)
	CommentaryFunc func(ctx context.Context, accountID string, provider model.AIProvider, in model.ProductInput) (string, model.CalculationResult, error)
}

var _ usecase.CalculationUseCase = (*mockCalcUC)(nil)

func (m *mockCalcUC) Calculate(ctx context.Context, in model.ProductInput) (model.CalculationResult, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx, in)
	}
	return model.CalculateProfit(in), nil
}

func (m *mockCalcUC) EstimateScanCost(ctx context.Context, provider model.AIProvider) (float64, error) {
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, provider)
	}
	return model.EstimateScanCostUSD(model.DefaultPricing(provider)), nil
}

func (m *mockCalcUC) Commentary(ctx context.Context, accountID string, provider model.AIProvider, in model.ProductInput) (string, model.CalculationResult, error) {
	if m.CommentaryFunc != nil {
		return m.CommentaryFunc(ctx, accountID, provider, in)
	}
	return "ok", model.CalculateProfit(in), nil
}

func (m *mockCalcUC) ScanHistory(ctx context.Context, accountID string, limit int) ([]*model.ScanEvent, error) {
	return nil, nil
}

type mockQuotaUC struct {
	StatusFunc  func(ctx context.Context, accountID string) (model.ScanStatus, error)
	ConsumeFunc func(ctx context.Context, accountID string) (model.ScanStatus, error)
	EnrollFunc  func(ctx context.Context, accountID string) (*model.ScanUsage, error)
}

var _ usecase.ScanQuotaUseCase = (*mockQuotaUC)(nil)

func (m *mockQuotaUC) Status(ctx context.Context, accountID string) (model.ScanStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, accountID)
	}
	return model.ScanStatus{}, domain.ErrNotFound
}

func (m *mockQuotaUC) Consume(ctx context.Context, accountID string) (model.ScanStatus, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, accountID)
	}
	return model.ScanStatus{}, domain.ErrNotFound
}

func (m *mockQuotaUC) Enroll(ctx context.Context, accountID string) (*model.ScanUsage, error) {
	if m.EnrollFunc != nil {
		return m.EnrollFunc(ctx, accountID)
	}
	return model.NewScanUsage(accountID), nil
}

type mockAccessUC struct {
	ByEmailFunc   func(ctx context.Context, email string) (model.Entitlement, error)
	ByAccountFunc func(ctx context.Context, accountID string) (model.Entitlement, error)
	GrantFunc     func(ctx context.Context, key, product string, active bool, expiresAt *time.Time) (*model.AccessRecord, error)
}

var _ usecase.AccessUseCase = (*mockAccessUC)(nil)

func (m *mockAccessUC) CheckByEmail(ctx context.Context, email string) (model.Entitlement, error) {
	if m.ByEmailFunc != nil {
		return m.ByEmailFunc(ctx, email)
	}
	return model.EvaluateEntitlement(nil, time.Now()), nil
}

func (m *mockAccessUC) CheckProduct(ctx context.Context, accountID string) (model.Entitlement, error) {
	if m.ByAccountFunc != nil {
		return m.ByAccountFunc(ctx, accountID)
	}
	return model.EvaluateEntitlement(nil, time.Now()), nil
}

func (m *mockAccessUC) Grant(ctx context.Context, key, product string, active bool, expiresAt *time.Time) (*model.AccessRecord, error) {
	if m.GrantFunc != nil {
		return m.GrantFunc(ctx, key, product, active, expiresAt)
	}
	return &model.AccessRecord{Key: key, Product: product, IsActive: active, ExpiresAt: expiresAt}, nil
}

type mockPricingUC struct {
	usecase.PricingUseCase
	ListFunc func(ctx context.Context) ([]*model.ProviderPricing, error)
}

func (m *mockPricingUC) List(ctx context.Context) ([]*model.ProviderPricing, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type mockMailUC struct {
	usecase.MailUseCase
	GetSettingsFunc func(ctx context.Context) (*model.SMTPSettings, error)
	SendTestFunc    func(ctx context.Context, templateName, to string, data map[string]string) error
}

func (m *mockMailUC) GetSettings(ctx context.Context) (*model.SMTPSettings, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMailUC) SendTest(ctx context.Context, templateName, to string, data map[string]string) error {
	if m.SendTestFunc != nil {
		return m.SendTestFunc(ctx, templateName, to, data)
	}
	return domain.ErrMailNotConfigured
}

func newTestServer(calc *mockCalcUC, quota *mockQuotaUC, access *mockAccessUC) *Server {
	logger := zerolog.Nop()
	auth := NewAuthManager("test-secret", false, "", 30*time.Minute)
	return NewServer(calc, quota, access, &mockPricingUC{}, &mockMailUC{}, auth, "test-admin-key", nil, 0, &logger)
}
