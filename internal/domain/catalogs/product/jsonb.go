package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"furnicost/internal/domain/costing"
)

// TechCard is the JSONB technical card column.
type TechCard []costing.BomLine

// Scan implements sql.Scanner.
func (t *TechCard) Scan(src any) error {
	return scanJSON(src, (*[]costing.BomLine)(t))
}

// Value implements driver.Valuer.
func (t TechCard) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]costing.BomLine(t))
}

// PaintJobs is the JSONB paint jobs column.
type PaintJobs []costing.PaintJob

// Scan implements sql.Scanner.
func (p *PaintJobs) Scan(src any) error {
	return scanJSON(src, (*[]costing.PaintJob)(p))
}

// Value implements driver.Valuer.
func (p PaintJobs) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]costing.PaintJob(p))
}

func scanJSON(src any, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode JSONB: %w", err)
	}
	return nil
}
