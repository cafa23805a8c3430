// Package xlsx reads material price sheets and writes product price lists.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/catalogs/material"
	"furnicost/pkg/logger"
)

// Material sheet columns.
const (
	colArticle  = "article"
	colName     = "name"
	colUnit     = "unit"
	colPrice    = "price"
	colCoeff    = "coeff"
	colCategory = "category"
	colKind     = "kind"
	colActive   = "active"
)

// headerAliases maps lower-cased header captions to columns.
var headerAliases = map[string]string{
	"article":           colArticle,
	"артикул":           colArticle,
	"sku":               colArticle,
	"name":              colName,
	"наименование":      colName,
	"название":          colName,
	"unit":              colUnit,
	"ед.":               colUnit,
	"ед. изм.":          colUnit,
	"единица":           colUnit,
	"price":             colPrice,
	"цена":              colPrice,
	"coeff":             colCoeff,
	"consumption coeff": colCoeff,
	"коэффициент":       colCoeff,
	"коэф. расхода":     colCoeff,
	"category":          colCategory,
	"категория":         colCategory,
	"kind":              colKind,
	"тип":               colKind,
	"active":            colActive,
	"активен":           colActive,
}

// RowError describes a rejected sheet row.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// MaterialRow is a parsed sheet row.
type MaterialRow struct {
	Line     int
	Material *material.Material
}

// ParseMaterials reads the first sheet (or sheet, when not empty) of r. The
// header row is located by captions; name, unit and price columns are required.
// Rows that cannot be parsed are reported, not fatal.
func ParseMaterials(r io.Reader, sheet string) ([]MaterialRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperror.NewInvalidInput("file is not a readable .xlsx workbook").WithCause(err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, apperror.NewInvalidInput("sheet not found").WithDetail("sheet", sheet).WithCause(err)
	}
	if len(rows) < 2 {
		return nil, nil, apperror.NewInvalidInput("sheet has no data rows").WithDetail("sheet", sheet)
	}

	cols := mapHeader(rows[0])
	extra := extraColumns(rows[0], cols)
	for _, required := range []string{colName, colUnit, colPrice} {
		if _, ok := cols[required]; !ok {
			return nil, nil, apperror.NewInvalidInput("missing required column").WithDetail("column", required)
		}
	}

	var (
		parsed []MaterialRow
		failed []RowError
	)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		m, err := rowToMaterial(row, cols)
		if err != nil {
			failed = append(failed, RowError{Line: line, Message: err.Error()})
			continue
		}
		for caption, idx := range extra {
			if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
				m.SetAttribute(caption, strings.TrimSpace(row[idx]))
			}
		}
		parsed = append(parsed, MaterialRow{Line: line, Material: m})
	}
	return parsed, failed, nil
}

func mapHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, caption := range header {
		key := strings.ToLower(strings.TrimSpace(caption))
		if col, ok := headerAliases[key]; ok {
			if _, dup := cols[col]; !dup {
				cols[col] = i
			}
		}
	}
	return cols
}

// extraColumns returns captioned columns that are not mapped to a material field.
// Their values land in the material attributes.
func extraColumns(header []string, cols map[string]int) map[string]int {
	used := make(map[int]bool, len(cols))
	for _, i := range cols {
		used[i] = true
	}
	extra := make(map[string]int)
	for i, caption := range header {
		caption = strings.TrimSpace(caption)
		if caption != "" && !used[i] {
			extra[caption] = i
		}
	}
	return extra
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, cols map[string]int, col string) string {
	i, ok := cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func rowToMaterial(row []string, cols map[string]int) (*material.Material, error) {
	name := cell(row, cols, colName)
	if name == "" {
		return nil, fmt.Errorf("name is empty")
	}

	price := types.ParseNumber(cell(row, cols, colPrice))
	if !price.Valid() {
		return nil, fmt.Errorf("price %q is not a number", cell(row, cols, colPrice))
	}
	if price.Decimal().IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}

	unit := cell(row, cols, colUnit)
	if unit == "" {
		unit = "pcs"
	}

	m := material.NewMaterial("", name, unit, price.Decimal())
	if article := cell(row, cols, colArticle); article != "" {
		m.Article = &article
	}
	if raw := cell(row, cols, colCoeff); raw != "" {
		coeff := types.ParseNumber(raw)
		if !coeff.Valid() || coeff.Decimal().IsNegative() {
			return nil, fmt.Errorf("consumption coefficient %q is invalid", raw)
		}
		m.ConsumptionCoeff = decimal.NewNullDecimal(coeff.Decimal())
	}
	m.Category = cell(row, cols, colCategory)
	m.Kind = cell(row, cols, colKind)
	if raw := strings.ToLower(cell(row, cols, colActive)); raw != "" {
		m.IsActive = !(raw == "0" || raw == "no" || raw == "false" || raw == "нет")
	}
	return m, nil
}

// Upserter stores one material, creating or updating by article.
type Upserter interface {
	Upsert(ctx context.Context, m *material.Material) (material.UpsertResult, error)
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Failed  []RowError `json:"failed,omitempty"`
}

// ImportMaterials parses r and upserts every valid row. A row rejected by the
// catalog is reported and the import continues.
func ImportMaterials(ctx context.Context, r io.Reader, sheet string, dst Upserter) (ImportReport, error) {
	rows, failed, err := ParseMaterials(r, sheet)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Failed: failed}
	for _, row := range rows {
		res, err := dst.Upsert(ctx, row.Material)
		if err != nil {
			report.Failed = append(report.Failed, RowError{Line: row.Line, Message: err.Error()})
			continue
		}
		switch res {
		case material.UpsertCreated:
			report.Created++
		case material.UpsertUpdated:
			report.Updated++
		}
	}

	logger.Info(ctx, "materials imported",
		"created", report.Created,
		"updated", report.Updated,
		"failed", len(report.Failed),
	)
	return report, nil
}
