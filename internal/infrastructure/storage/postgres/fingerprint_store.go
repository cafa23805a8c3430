package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"furnicost/internal/core/apperror"
	"furnicost/internal/domain/audit"
)

const fingerprintTable = "sys_cost_fingerprints"

// CompressionAlgo specifies how a stored payload is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which payloads are zstd-compressed.
const DefaultCompressThreshold = 4 * 1024

var _ audit.Store = (*FingerprintStore)(nil)

// fingerprintRow is the table layout of sys_cost_fingerprints.
type fingerprintRow struct {
	audit.Record
	Compression CompressionAlgo `db:"compression_algo"`
}

// FingerprintStore keeps cost fingerprints in sys_cost_fingerprints.
type FingerprintStore struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewFingerprintStore creates the store. threshold <= 0 selects DefaultCompressThreshold.
func NewFingerprintStore(txm *TxManager, threshold int) (*FingerprintStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}

	return &FingerprintStore{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// encode compresses payloads above the threshold.
func (s *FingerprintStore) encode(payload []byte) ([]byte, CompressionAlgo) {
	if len(payload) <= s.compressThreshold {
		return payload, CompressionNone
	}
	return s.encoder.EncodeAll(payload, nil), CompressionZstd
}

func (s *FingerprintStore) decode(payload []byte, algo CompressionAlgo) ([]byte, error) {
	switch algo {
	case CompressionZstd:
		out, err := s.decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		return out, nil
	case CompressionNone, "":
		return payload, nil
	}
	return nil, fmt.Errorf("unknown compression %q", algo)
}

// Save implements audit.Store.
func (s *FingerprintStore) Save(ctx context.Context, rec audit.Record) error {
	payload, algo := s.encode(rec.Payload)

	sql, args, err := builder().
		Insert(fingerprintTable).
		Columns("id", "product_key", "fingerprint", "payload", "compression_algo", "final_price", "operator", "created_at").
		Values(rec.ID, rec.ProductKey, rec.Fingerprint, payload, algo, rec.FinalPrice, rec.Operator, rec.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert fingerprint: %w", err)
	}
	return nil
}

// Latest implements audit.Store.
func (s *FingerprintStore) Latest(ctx context.Context, productKey string) (audit.Record, error) {
	sql, args, err := builder().
		Select("id", "product_key", "fingerprint", "payload", "compression_algo", "final_price", "operator", "created_at").
		From(fingerprintTable).
		Where(squirrel.Eq{"product_key": productKey}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return audit.Record{}, fmt.Errorf("build query: %w", err)
	}

	var row fingerprintRow
	if err := pgxscan.Get(ctx, s.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return audit.Record{}, apperror.NewNotFound("cost fingerprint", productKey)
		}
		return audit.Record{}, fmt.Errorf("get fingerprint: %w", err)
	}

	payload, err := s.decode(row.Payload, row.Compression)
	if err != nil {
		return audit.Record{}, err
	}
	row.Record.Payload = payload
	return row.Record, nil
}
