package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"portfolio-quiz-service/internal/domain"
)

// BankLoader fetches bank content from a backing store (HTTP sources,
// Postgres, fixtures).
type BankLoader interface {
	LoadBank(ctx context.Context, testType domain.TestType) (domain.Bank, error)
}

// BankRepository caches loaded banks with TTL so a retake does not refetch
// every section document.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.TestType]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.TestType]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, testType domain.TestType) (domain.Bank, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[testType]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(string(testType), func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[testType]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.bank, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx, testType)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[testType] = cachedBank{
			bank:      bank,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves fixture banks from a map (tests/demos).
type StaticBankLoader struct {
	banks map[domain.TestType]domain.Bank
}

func NewStaticBankLoader(banks map[domain.TestType]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, testType domain.TestType) (domain.Bank, error) {
	if bank, ok := l.banks[testType]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}
