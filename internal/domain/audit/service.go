package audit

import (
	"context"
	"fmt"
	"time"

	"furnicost/internal/core/apperror"
	appctx "furnicost/internal/core/context"
	"furnicost/internal/core/id"
	"furnicost/internal/domain/costing"
	"furnicost/pkg/logger"
)

// Record is a stored fingerprint.
type Record struct {
	ID          id.ID     `db:"id" json:"id"`
	ProductKey  string    `db:"product_key" json:"productKey"`
	Fingerprint string    `db:"fingerprint" json:"fingerprint"`
	Payload     []byte    `db:"payload" json:"-"`
	FinalPrice  string    `db:"final_price" json:"finalPrice"`
	Operator    string    `db:"operator" json:"operator,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Store persists fingerprint records.
type Store interface {
	Save(ctx context.Context, rec Record) error

	// Latest returns the most recent record for productKey or a NotFound AppError.
	Latest(ctx context.Context, productKey string) (Record, error)
}

// Verification compares a fresh calculation with the latest stored fingerprint.
type Verification struct {
	ProductKey string    `json:"productKey"`
	Match      bool      `json:"match"`
	Stored     string    `json:"stored"`
	Current    string    `json:"current"`
	RecordedAt time.Time `json:"recordedAt"`

	// Code is FINGERPRINT_MISMATCH when the fingerprints differ.
	Code string `json:"code,omitempty"`
}

// Service records and verifies fingerprints. It is invoked by callers after a
// calculation, never by the engine.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a fingerprint service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Record stores the fingerprint of result for product.
func (s *Service) Record(ctx context.Context, p costing.Product, r costing.Result) (Record, error) {
	encoded, err := BuildPayload(p, r).Encode()
	if err != nil {
		return Record{}, apperror.NewInternal(err)
	}

	rec := Record{
		ID:          id.New(),
		ProductKey:  ProductKey(p),
		Fingerprint: Fingerprint(encoded),
		Payload:     encoded,
		FinalPrice:  r.FinalPrice.String(),
		Operator:    appctx.GetOperator(ctx),
		CreatedAt:   s.now(),
	}

	if err := s.store.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save fingerprint: %w", err)
	}

	logger.Debug(ctx, "cost fingerprint recorded",
		"product_key", rec.ProductKey,
		"fingerprint", rec.Fingerprint,
	)

	return rec, nil
}

// Verify recomputes the fingerprint of result and compares it with the latest
// stored one. A mismatch is reported, not returned as an error.
func (s *Service) Verify(ctx context.Context, p costing.Product, r costing.Result) (Verification, error) {
	key := ProductKey(p)

	stored, err := s.store.Latest(ctx, key)
	if err != nil {
		return Verification{}, err
	}

	encoded, err := BuildPayload(p, r).Encode()
	if err != nil {
		return Verification{}, apperror.NewInternal(err)
	}
	current := Fingerprint(encoded)

	v := Verification{
		ProductKey: key,
		Match:      current == stored.Fingerprint,
		Stored:     stored.Fingerprint,
		Current:    current,
		RecordedAt: stored.CreatedAt,
	}
	if !v.Match {
		v.Code = apperror.CodeFingerprintMismatch
		logger.Warn(ctx, "cost fingerprint mismatch",
			"code", v.Code,
			"product_key", key,
			"stored", stored.Fingerprint,
			"current", current,
		)
	}
	return v, nil
}
