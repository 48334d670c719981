//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/adapter"
	"profitscan-ai/internal/domain/ports/repository"
	"profitscan-ai/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Repositories
// =============================

// ---- Mock ScanUsageRepository ----

type MockScanUsageRepo struct {
	mu        sync.Mutex
	byAccount map[string]*model.ScanUsage

	FindFunc      func(ctx context.Context, accountID string) (*model.ScanUsage, error)
	ResetFunc     func(ctx context.Context, accountID string, prev, now time.Time) (bool, error)
	IncrementFunc func(ctx context.Context, accountID string) error

	Resets     int
	Increments int
}

var _ repository.ScanUsageRepository = (*MockScanUsageRepo)(nil)

func NewMockScanUsageRepo() *MockScanUsageRepo {
	return &MockScanUsageRepo{byAccount: map[string]*model.ScanUsage{}}
}

func (m *MockScanUsageRepo) Put(u *model.ScanUsage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byAccount[u.AccountID] = &cp
}

func (m *MockScanUsageRepo) FindByAccountID(ctx context.Context, _ repository.Tx, accountID string) (*model.ScanUsage, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byAccount[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockScanUsageRepo) Create(_ context.Context, _ repository.Tx, u *model.ScanUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byAccount[u.AccountID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *u
	m.byAccount[u.AccountID] = &cp
	return nil
}

func (m *MockScanUsageRepo) ResetIfAnchor(ctx context.Context, _ repository.Tx, accountID string, prev, now time.Time) (bool, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, accountID, prev, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byAccount[accountID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if !u.EffectiveResetAt().Equal(prev) {
		return false, nil
	}
	u.ScansUsed = 0
	u.ResetAt = now
	m.Resets++
	return true, nil
}

func (m *MockScanUsageRepo) IncrementUsed(ctx context.Context, _ repository.Tx, accountID string) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byAccount[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	u.ScansUsed++
	m.Increments++
	return nil
}

// ---- Mock ScanEventRepository ----

type MockScanEventRepo struct {
	mu     sync.Mutex
	Events []*model.ScanEvent

	AppendFunc func(ctx context.Context, ev *model.ScanEvent) error
}

var _ repository.ScanEventRepository = (*MockScanEventRepo)(nil)

func NewMockScanEventRepo() *MockScanEventRepo { return &MockScanEventRepo{} }

func (m *MockScanEventRepo) Append(ctx context.Context, _ repository.Tx, ev *model.ScanEvent) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, ev)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return nil
}

func (m *MockScanEventRepo) ListByAccountID(_ context.Context, _ repository.Tx, accountID string, limit int) ([]*model.ScanEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ScanEvent
	for _, ev := range m.Events {
		if ev.AccountID == accountID {
			out = append(out, ev)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ---- Mock AccessRepository ----

type MockAccessRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*model.AccessRecord
	byAccount map[string]*model.AccessRecord
}

var _ repository.AccessRepository = (*MockAccessRepo)(nil)

func NewMockAccessRepo() *MockAccessRepo {
	return &MockAccessRepo{byEmail: map[string]*model.AccessRecord{}, byAccount: map[string]*model.AccessRecord{}}
}

func (m *MockAccessRepo) PutEmail(email string, rec *model.AccessRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[email] = rec
}

func (m *MockAccessRepo) PutAccount(accountID string, rec *model.AccessRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byAccount[accountID+"/"+rec.Product] = rec
}

func (m *MockAccessRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.AccessRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockAccessRepo) FindByAccountAndProduct(_ context.Context, _ repository.Tx, accountID, product string) (*model.AccessRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byAccount[accountID+"/"+product]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockAccessRepo) Save(_ context.Context, _ repository.Tx, rec *model.AccessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Product == model.ProductPro {
		m.byAccount[rec.Key+"/"+rec.Product] = rec
	} else {
		m.byEmail[rec.Key] = rec
	}
	return nil
}

// ---- Mock ProviderPricingRepository ----

type MockPricingRepo struct {
	mu         sync.Mutex
	byProvider map[model.AIProvider]*model.ProviderPricing
}

var _ repository.ProviderPricingRepository = (*MockPricingRepo)(nil)

func NewMockPricingRepo() *MockPricingRepo {
	return &MockPricingRepo{byProvider: map[model.AIProvider]*model.ProviderPricing{}}
}

func (m *MockPricingRepo) FindByProvider(_ context.Context, _ repository.Tx, p model.AIProvider) (*model.ProviderPricing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.byProvider[p]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (m *MockPricingRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.ProviderPricing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ProviderPricing
	for _, pr := range m.byProvider {
		cp := *pr
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPricingRepo) Upsert(_ context.Context, _ repository.Tx, pr *model.ProviderPricing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pr
	m.byProvider[pr.Provider] = &cp
	return nil
}

func (m *MockPricingRepo) Delete(_ context.Context, _ repository.Tx, p model.AIProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byProvider[p]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byProvider, p)
	return nil
}

// ---- Mock MailRepository ----

type MockMailRepo struct {
	mu        sync.Mutex
	settings  *model.SMTPSettings
	templates map[string]*model.EmailTemplate
}

var _ repository.MailRepository = (*MockMailRepo)(nil)

func NewMockMailRepo() *MockMailRepo {
	return &MockMailRepo{templates: map[string]*model.EmailTemplate{}}
}

func (m *MockMailRepo) GetSettings(_ context.Context, _ repository.Tx) (*model.SMTPSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *MockMailRepo) SaveSettings(_ context.Context, _ repository.Tx, s *model.SMTPSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.settings = &cp
	return nil
}

func (m *MockMailRepo) FindTemplateByName(_ context.Context, _ repository.Tx, name string) (*model.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockMailRepo) ListTemplates(_ context.Context, _ repository.Tx) ([]*model.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.EmailTemplate
	for _, t := range m.templates {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockMailRepo) SaveTemplate(_ context.Context, _ repository.Tx, t *model.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.templates[t.Name] = &cp
	return nil
}

func (m *MockMailRepo) DeleteTemplate(_ context.Context, _ repository.Tx, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[name]; !ok {
		return domain.ErrNotFound
	}
	delete(m.templates, name)
	return nil
}

// =============================
// Adapters
// =============================

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	mu sync.Mutex

	ChatFunc          func(ctx context.Context, model string, msgs []adapter.Message) (string, error)
	ChatWithUsageFunc func(ctx context.Context, model string, msgs []adapter.Message) (string, adapter.Usage, error)
	CountTokensFunc   func(ctx context.Context, model string, msgs []adapter.Message) (int, error)

	Calls struct {
		Chat          int
		ChatWithUsage int
	}
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) CountTokens(ctx context.Context, mdl string, msgs []adapter.Message) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, mdl, msgs)
	}
	n := 0
	for _, msg := range msgs {
		n += len(msg.Content) / 4
	}
	return n, nil
}

func (m *MockAI) Chat(ctx context.Context, mdl string, msgs []adapter.Message) (string, error) {
	m.mu.Lock()
	m.Calls.Chat++
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, mdl, msgs)
	}
	return "ok", nil
}

func (m *MockAI) ChatWithUsage(ctx context.Context, mdl string, msgs []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	m.Calls.ChatWithUsage++
	m.mu.Unlock()
	if m.ChatWithUsageFunc != nil {
		return m.ChatWithUsageFunc(ctx, mdl, msgs)
	}
	return "ok", adapter.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}, nil
}

// ---- Mock Locker ----

type MockLocker struct {
	mu      sync.Mutex
	Locked  []string
	Fail    bool
	Unlocks int
}

var _ usecase.Locker = (*MockLocker)(nil)

func (m *MockLocker) TryLock(_ context.Context, key string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return "", domain.ErrLockNotAcquired
	}
	m.Locked = append(m.Locked, key)
	return "token", nil
}

func (m *MockLocker) Unlock(_ context.Context, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unlocks++
	return nil
}

// ---- Mock Mailer ----

type MockMailer struct {
	mu   sync.Mutex
	Sent []struct{ To, Subject, Body string }

	SendFunc func(ctx context.Context, settings *model.SMTPSettings, to, subject, body string) error
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, settings *model.SMTPSettings, to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, settings, to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}
