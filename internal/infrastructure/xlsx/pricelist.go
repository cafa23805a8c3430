package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"furnicost/internal/domain/catalogs/product"
)

const priceListSheet = "Price list"

var priceListHeader = []any{"Code", "Article", "Name", "Collection", "Size", "Total cost", "Markup, %", "Base price", "Incomplete", "Calculated at"}

// WritePriceList renders products with their last calculated prices as an xlsx workbook.
func WritePriceList(products []*product.Product, currency string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), priceListSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(priceListSheet)
	if err != nil {
		return nil, fmt.Errorf("create stream writer: %w", err)
	}

	header := append([]any{}, priceListHeader...)
	if currency != "" {
		header[7] = fmt.Sprintf("Base price, %s", currency)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, p := range products {
		row := []any{
			p.Code,
			p.ArticleValue(),
			p.Name,
			p.Collection,
			p.Size,
			nullable(p.TotalCost.Valid, p.TotalCost.Decimal.InexactFloat64()),
			nullable(p.Markup.Valid, p.Markup.Decimal.InexactFloat64()),
			nullable(p.BasePrice.Valid, p.BasePrice.Decimal.InexactFloat64()),
			p.CostErrors,
			"",
		}
		if p.CalculatedAt != nil {
			row[9] = p.CalculatedAt.Format("2006-01-02 15:04")
		}

		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(axis, row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func nullable(valid bool, v float64) any {
	if !valid {
		return ""
	}
	return v
}
