package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonwraymond/tenantkit/observe"
	"github.com/jonwraymond/tenantkit/token"
	"github.com/jonwraymond/tenantkit/wallet"
)

// Dependencies are the collaborators a Manager needs from the host.
type Dependencies struct {
	// Store is the wallet storage backend. Required.
	Store wallet.Store

	// Keys supplies the token signing secret. Required.
	Keys token.KeyProvider

	// Logger receives structured operation logs. Default: no logging.
	Logger observe.Logger

	// Meter records operation metrics. Default: no-op meter.
	Meter metric.Meter

	// Tracer creates operation spans. Default: no-op tracer.
	Tracer trace.Tracer

	// Now overrides the clock, for tests. Default: time.Now.
	Now func() time.Time
}

// Manager services tenant registration, token issuance, tenant removal and
// token authorization.
//
// Contract:
// - Concurrency: safe for concurrent use. Operations on the same tenant id
//   are mutually exclusive; operations on different tenants are not
//   serialized against each other.
// - Errors: failed operations never leave partial tenant/storage state.
type Manager struct {
	config   Config
	store    wallet.Store
	strategy wallet.Strategy
	codec    *token.Codec
	logger   observe.Logger
	metrics  *operationMetrics
	tracer   trace.Tracer
	now      func() time.Time

	mu      sync.RWMutex
	tenants map[string]*Tenant
	locks   *keyedMutex
}

// New creates a Manager from the configuration and host collaborators.
func New(config Config, deps Dependencies) (*Manager, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if deps.Store == nil {
		return nil, errors.New("manager: store is required")
	}
	if deps.Keys == nil {
		return nil, errors.New("manager: key provider is required")
	}

	// Apply defaults
	if deps.Logger == nil {
		deps.Logger = observe.NopLogger()
	}
	if deps.Meter == nil {
		deps.Meter = metricnoop.NewMeterProvider().Meter("tenantkit")
	}
	if deps.Tracer == nil {
		deps.Tracer = tracenoop.NewTracerProvider().Tracer("tenantkit")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	store := wallet.NewTimeoutStore(deps.Store, config.StoreTimeout)

	strategy, err := wallet.NewStrategy(config.StrategyName, store)
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.CodecConfig{
		Issuer: config.Issuer,
		Expiry: config.Expiry,
		Now:    deps.Now,
	}, deps.Keys)
	if err != nil {
		return nil, err
	}

	metrics, err := newOperationMetrics(deps.Meter)
	if err != nil {
		return nil, err
	}

	return &Manager{
		config:   config,
		store:    store,
		strategy: strategy,
		codec:    codec,
		logger:   deps.Logger.WithComponent("manager"),
		metrics:  metrics,
		tracer:   deps.Tracer,
		now:      deps.Now,
		tenants:  make(map[string]*Tenant),
		locks:    newKeyedMutex(),
	}, nil
}

// CreateTenantRequest describes a tenant registration.
type CreateTenantRequest struct {
	// Label is the tenant display label.
	Label string

	// WalletKey is the caller-supplied secondary credential. Required
	// under the multi_wallet strategy; optional under single_wallet,
	// where it is recorded for later authorization checks.
	WalletKey string

	// IssueToken mints the first token atomically with the registration.
	IssueToken bool

	// ExtraClaims are added to the first token when IssueToken is set.
	ExtraClaims map[string]any
}

// CreateTenantResult is the outcome of a successful registration.
type CreateTenantResult struct {
	// TenantID is the new tenant's identifier.
	TenantID string

	// Token is the first issued token. Empty unless IssueToken was set.
	Token string
}

// CreateTenant registers a new tenant and provisions its storage. Creation
// is atomic: on any failure neither the tenant record nor a dedicated
// storage unit survives.
func (m *Manager) CreateTenant(ctx context.Context, req CreateTenantRequest) (result *CreateTenantResult, err error) {
	ctx, finish := m.begin(ctx, "create")
	defer func() { finish(err) }()

	tenantID := uuid.NewString()
	m.locks.lock(tenantID)
	defer m.locks.unlock(tenantID)

	unit, err := m.strategy.Provision(ctx, tenantID, req.Label, req.WalletKey)
	if err != nil {
		return nil, err
	}

	t := &Tenant{
		ID:        tenantID,
		Label:     req.Label,
		WalletID:  unit.ID,
		CreatedAt: m.now(),
	}
	if !m.strategy.ChecksKeyAgainstStore() && req.WalletKey != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.WalletKey), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		t.keyHash = hash
	}

	var issued string
	if req.IssueToken {
		issued, _, err = m.codec.Issue(ctx, tenantID, unit.ID, req.ExtraClaims)
		if err != nil {
			// Creation is atomic: give the storage claim back before
			// reporting the failure.
			if relErr := m.strategy.Release(ctx, unit.ID, req.WalletKey); relErr != nil {
				m.logger.Warn(ctx, "orphaned storage unit after failed first token",
					observe.Field{Key: "wallet_id", Value: unit.ID},
					observe.Field{Key: "error", Value: relErr.Error()},
				)
			}
			return nil, err
		}
	}

	m.mu.Lock()
	m.tenants[tenantID] = t
	m.mu.Unlock()

	m.logger.Info(ctx, "tenant registered",
		observe.Field{Key: "tenant_id", Value: tenantID},
		observe.Field{Key: "wallet_id", Value: unit.ID},
		observe.Field{Key: "strategy", Value: m.strategy.Name()},
	)

	return &CreateTenantResult{TenantID: tenantID, Token: issued}, nil
}

// GetToken mints a new token for a registered tenant. Every successful call
// returns an independent token with its own expiry; there is no cap on
// concurrently valid tokens.
func (m *Manager) GetToken(ctx context.Context, tenantID, walletKey string, extra map[string]any) (issued string, err error) {
	ctx, finish := m.begin(ctx, "get_token")
	defer func() { finish(err) }()

	m.locks.lock(tenantID)
	defer m.locks.unlock(tenantID)

	t := m.tenant(tenantID)
	if t == nil {
		return "", ErrTenantNotFound
	}

	if err := m.admitWalletKey(ctx, t, walletKey); err != nil {
		return "", err
	}

	unit, err := m.strategy.Resolve(ctx, t.WalletID, walletKey)
	if err != nil {
		return "", err
	}

	issued, _, err = m.codec.Issue(ctx, t.ID, unit.ID, extra)
	if err != nil {
		return "", err
	}

	m.logger.Debug(ctx, "token issued", observe.Field{Key: "tenant_id", Value: t.ID})
	return issued, nil
}

// RemoveTenant removes a registered tenant. Under multi_wallet the dedicated
// storage unit is destroyed; under single_wallet only the tenant record is
// detached. Removal is terminal and not idempotent: a second call fails with
// ErrTenantNotFound.
func (m *Manager) RemoveTenant(ctx context.Context, tenantID, walletKey string) (err error) {
	ctx, finish := m.begin(ctx, "remove")
	defer func() { finish(err) }()

	m.locks.lock(tenantID)
	defer m.locks.unlock(tenantID)

	t := m.tenant(tenantID)
	if t == nil {
		return ErrTenantNotFound
	}

	if err := m.admitWalletKey(ctx, t, walletKey); err != nil {
		return err
	}

	// Release first: if the store fails, the tenant stays registered and
	// the caller may retry.
	if err := m.strategy.Release(ctx, t.WalletID, walletKey); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.tenants, tenantID)
	m.mu.Unlock()

	m.logger.Info(ctx, "tenant removed", observe.Field{Key: "tenant_id", Value: tenantID})
	return nil
}

// Authorization is the identity extracted from a valid token.
type Authorization struct {
	// TenantID is the authorized tenant.
	TenantID string

	// WalletID is the storage unit referenced by the token.
	WalletID string

	// Claims is the full decoded claim set.
	Claims token.Claims
}

// DecodeAndAuthorize verifies a token and re-checks tenant liveness, so
// that removal revokes all outstanding tokens even before they expire.
func (m *Manager) DecodeAndAuthorize(ctx context.Context, tokenString string) (authz *Authorization, err error) {
	ctx, finish := m.begin(ctx, "authorize")
	defer func() { finish(err) }()

	claims, err := m.codec.Decode(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	t := m.tenant(claims.TenantID)
	if t == nil || t.WalletID != claims.WalletID {
		return nil, ErrTenantNotFound
	}

	return &Authorization{
		TenantID: t.ID,
		WalletID: t.WalletID,
		Claims:   claims,
	}, nil
}

// Tenant returns a copy of a registered tenant's record.
func (m *Manager) Tenant(tenantID string) (*Tenant, error) {
	t := m.tenant(tenantID)
	if t == nil {
		return nil, ErrTenantNotFound
	}
	return t.clone(), nil
}

// TenantCount returns the number of registered tenants.
func (m *Manager) TenantCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tenants)
}

func (m *Manager) tenant(tenantID string) *Tenant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tenants[tenantID]
}

// admitWalletKey applies the wallet-key admission rule for the current
// strategy and configuration.
func (m *Manager) admitWalletKey(ctx context.Context, t *Tenant, walletKey string) error {
	if m.strategy.ChecksKeyAgainstStore() {
		// The key is opening material for the tenant's dedicated unit.
		if walletKey == "" {
			return wallet.ErrWalletKeyRequired
		}
		if m.config.SkipProvidedKeyCheck {
			// The store still enforces the key when the unit is opened.
			return nil
		}
		return m.verifyAgainstStore(ctx, t.WalletID, walletKey)
	}

	if t.HasWalletKey() {
		if walletKey == "" {
			return wallet.ErrWalletKeyRequired
		}
		if m.config.SkipProvidedKeyCheck {
			return nil
		}
		return t.verifyWalletKey(walletKey)
	}

	if walletKey != "" {
		if m.config.IgnoreUnneededKey {
			m.logger.Debug(ctx, "ignoring unneeded wallet key",
				observe.Field{Key: "tenant_id", Value: t.ID})
			return nil
		}
		return ErrUnneededWalletKey
	}
	return nil
}

func (m *Manager) verifyAgainstStore(ctx context.Context, unitID, walletKey string) error {
	if kv, ok := m.store.(wallet.KeyVerifier); ok {
		return kv.VerifyKey(ctx, unitID, walletKey)
	}
	_, err := m.store.Open(ctx, unitID, walletKey)
	return err
}

// begin opens a span for the operation and returns a finish func recording
// status, metrics and a completion log.
func (m *Manager) begin(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := m.tracer.Start(ctx, "tenant."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("tenant.op", op)),
	)
	start := time.Now()

	return ctx, func(err error) {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		m.metrics.record(ctx, op, time.Since(start), err)
	}
}
