package catalog_repo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/id"
	"furnicost/internal/domain"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/domain/filter"
)

func testRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", "test", []string{"id", "name", "col1"}, func() any { return nil })
}

func TestApplyAdvancedFilters_Operators(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Greater",
			item:     filter.Item{Field: "col1", Operator: filter.Greater, Value: 10},
			wantSQL:  "SELECT id, name, col1 FROM test_table WHERE col1 > $1",
			wantArgs: []any{10},
		},
		{
			name:     "Less",
			item:     filter.Item{Field: "col1", Operator: filter.Less, Value: 5},
			wantSQL:  "SELECT id, name, col1 FROM test_table WHERE col1 < $1",
			wantArgs: []any{5},
		},
		{
			name:     "GreaterOrEqual",
			item:     filter.Item{Field: "col1", Operator: filter.GreaterOrEqual, Value: 7},
			wantSQL:  "SELECT id, name, col1 FROM test_table WHERE col1 >= $1",
			wantArgs: []any{7},
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "name", Operator: filter.Contains, Value: "oak"},
			wantSQL:  "SELECT id, name, col1 FROM test_table WHERE name ILIKE $1",
			wantArgs: []any{"%oak%"},
		},
		{
			name:     "IsNull",
			item:     filter.Item{Field: "col1", Operator: filter.IsNull},
			wantSQL:  "SELECT id, name, col1 FROM test_table WHERE col1 IS NULL",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{tt.item})
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestApplyAdvancedFilters_RejectsUnknownColumn(t *testing.T) {
	repo := testRepo()

	_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
		{Field: "col1; DROP TABLE x", Operator: filter.Equal, Value: 1},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))
}

func TestBuildList_DefaultsToNonDeleted(t *testing.T) {
	repo := testRepo()

	q, err := repo.buildList(domain.ListFilter{Search: "oak"})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, col1 FROM test_table WHERE deletion_mark = $1 AND (name ILIKE $2 OR code ILIKE $3)", sql)
	assert.Equal(t, []any{false, "%oak%", "%oak%"}, args)
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	got, err = repo.parseOrderBy("-col1")
	require.NoError(t, err)
	assert.Equal(t, "col1 DESC", got)

	_, err = repo.parseOrderBy("price; DROP")
	assert.Error(t, err)
}

func TestPricingUpdate_SQL(t *testing.T) {
	repo := testRepo()
	pid := id.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sql, args, err := pricingUpdate(repo.Builder(), pid, product.Pricing{
		TotalCost:    decimal.NewNullDecimal(decimal.NewFromInt(1624)),
		Markup:       decimal.NewNullDecimal(decimal.NewFromInt(50)),
		BasePrice:    decimal.NewNullDecimal(decimal.NewFromInt(2436)),
		CalculatedAt: &at,
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE cat_products SET total_cost = $1, markup = $2, base_price = $3, cost_errors = $4, calculated_at = $5 WHERE id = $6",
		sql)
	require.Len(t, args, 6)
	assert.Equal(t, pid, args[5])
	assert.NotContains(t, sql, "version")
}
