package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	"github.com/bankstmt/bank_statement_app/internal/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	accountKeyPrefix  = "account:"
	defaultAccountTTL = 30 * time.Second
)

// CachedAccountRepository is a read-through decorator over an AccountRepository.
// Single-account lookups are served from Redis when possible; every write path
// drops the cached entry so the next read hits the database. Cache failures are
// logged and otherwise ignored, the database stays the source of truth.
//
// Entries carry a short TTL because account rows can also change through the
// user-deletion cascade, which runs outside this decorator.
type CachedAccountRepository struct {
	inner  portsrepo.AccountRepository
	client *redis.Client
	ttl    time.Duration
}

var _ portsrepo.AccountRepository = (*CachedAccountRepository)(nil)

// NewCachedAccountRepository wraps inner with a Redis read-through cache.
// A non-positive ttl falls back to the default.
func NewCachedAccountRepository(inner portsrepo.AccountRepository, client *redis.Client, ttl time.Duration) *CachedAccountRepository {
	if ttl <= 0 {
		ttl = defaultAccountTTL
	}
	return &CachedAccountRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedAccountRepository) logger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

func (r *CachedAccountRepository) cacheGet(ctx context.Context, accountNumber string) (*domain.Account, bool) {
	data, err := r.client.Get(ctx, accountKeyPrefix+accountNumber).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger(ctx).Warn("account cache read failed", "account_number", accountNumber, "error", err)
		}
		return nil, false
	}
	var account domain.Account
	if err := json.Unmarshal(data, &account); err != nil {
		r.logger(ctx).Warn("account cache entry corrupt, dropping", "account_number", accountNumber, "error", err)
		r.cacheInvalidate(ctx, accountNumber)
		return nil, false
	}
	return &account, true
}

func (r *CachedAccountRepository) cacheSet(ctx context.Context, account *domain.Account) {
	data, err := json.Marshal(account)
	if err != nil {
		r.logger(ctx).Warn("account cache marshal failed", "account_number", account.AccountNumber, "error", err)
		return
	}
	if err := r.client.Set(ctx, accountKeyPrefix+account.AccountNumber, data, r.ttl).Err(); err != nil {
		r.logger(ctx).Warn("account cache write failed", "account_number", account.AccountNumber, "error", err)
	}
}

func (r *CachedAccountRepository) cacheInvalidate(ctx context.Context, accountNumber string) {
	if err := r.client.Del(ctx, accountKeyPrefix+accountNumber).Err(); err != nil {
		r.logger(ctx).Warn("account cache invalidation failed", "account_number", accountNumber, "error", err)
	}
}

// FindAccountByNumber serves from cache when possible, falling back to the
// database and populating the cache on a hit.
func (r *CachedAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if account, ok := r.cacheGet(ctx, accountNumber); ok {
		return account, nil
	}
	account, err := r.inner.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	r.cacheSet(ctx, account)
	return account, nil
}

// ExistsAccountNumber always consults the database: this call backs account
// number allocation, where a stale miss would hand out a taken number.
func (r *CachedAccountRepository) ExistsAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	return r.inner.ExistsAccountNumber(ctx, accountNumber)
}

// FindAccountsByUserID is not cached; list results churn with every new account.
func (r *CachedAccountRepository) FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	return r.inner.FindAccountsByUserID(ctx, userID)
}

func (r *CachedAccountRepository) SaveAccountWithInitialDeposit(ctx context.Context, account domain.Account, initialDeposit *domain.Transaction) error {
	if err := r.inner.SaveAccountWithInitialDeposit(ctx, account, initialDeposit); err != nil {
		return err
	}
	r.cacheInvalidate(ctx, account.AccountNumber)
	return nil
}

func (r *CachedAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	if err := r.inner.UpdateAccount(ctx, account); err != nil {
		return err
	}
	r.cacheInvalidate(ctx, account.AccountNumber)
	return nil
}

func (r *CachedAccountRepository) CloseAccount(ctx context.Context, accountNumber string, now time.Time) error {
	if err := r.inner.CloseAccount(ctx, accountNumber, now); err != nil {
		return err
	}
	r.cacheInvalidate(ctx, accountNumber)
	return nil
}
