// Package numerator implements catalog code generation on top of the
// sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	corenumerator "furnicost/internal/core/numerator"
)

// Querier is the subset of pgx used here. Both the pool and a transaction satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service reserves sequence values in PostgreSQL.
// Codes are generated outside business transactions, so the pool is used directly.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator on top of querier.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next returns the next code of cfg's series.
func (s *Service) Next(ctx context.Context, cfg corenumerator.Config) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var (
		num int64
		err error
	)
	switch cfg.Strategy {
	case corenumerator.StrategyCached:
		num, err = s.nextCached(ctx, cfg)
	default:
		num, err = s.reserve(ctx, cfg.Prefix, 1)
	}
	if err != nil {
		return "", err
	}

	return corenumerator.Format(cfg, num), nil
}

// reserve adds increment to the sequence and returns the new upper bound.
func (s *Service) reserve(ctx context.Context, key string, increment int64) (int64, error) {
	var upper int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
		RETURNING current_val
	`, key, increment).Scan(&upper)
	if err != nil {
		return 0, fmt.Errorf("reserve %s: %w", key, err)
	}
	return upper, nil
}

func (s *Service) nextCached(ctx context.Context, cfg corenumerator.Config) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[cfg.Prefix]
	if !ok {
		rng = &cachedRange{}
		s.ranges[cfg.Prefix] = rng
	}

	if rng.current >= rng.max {
		size := cfg.RangeSize
		if size <= 0 {
			size = 50
		}
		upper, err := s.reserve(ctx, cfg.Prefix, size)
		if err != nil {
			return 0, err
		}
		// Reserved range is (upper-size, upper].
		rng.current = upper - size
		rng.max = upper
	}

	rng.current++
	return rng.current, nil
}

// Reset sets the sequence so the next strict code is value+1 and drops the cached range.
// Used by the spreadsheet import after loading rows with explicit codes.
func (s *Service) Reset(ctx context.Context, cfg corenumerator.Config, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = GREATEST(sys_sequences.current_val, $2)
		RETURNING current_val
	`, cfg.Prefix, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, cfg.Prefix)
	s.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("reset %s: %w", cfg.Prefix, err)
	}
	return nil
}
