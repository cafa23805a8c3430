package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(FS(), "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		raw, err := fs.ReadFile(FS(), name)
		require.NoError(t, err)

		body := string(raw)
		assert.True(t, strings.Contains(body, "-- +goose Up"), name)
		assert.True(t, strings.Contains(body, "-- +goose Down"), name)
	}
}

func TestSchemaCoversCatalogTables(t *testing.T) {
	raw, err := fs.ReadFile(FS(), "00001_catalogs.sql")
	require.NoError(t, err)

	for _, table := range []string{"cat_materials", "cat_paint_recipes", "cat_paint_complexities", "cat_products"} {
		assert.Contains(t, string(raw), "CREATE TABLE "+table)
	}
}

func TestCatalogNotifyTriggers(t *testing.T) {
	raw, err := fs.ReadFile(FS(), "00004_catalog_notify.sql")
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "pg_notify('catalog_changed', TG_TABLE_NAME)")
	for _, table := range []string{"cat_materials", "cat_paint_recipes", "cat_paint_complexities"} {
		assert.Contains(t, body, "ON "+table)
	}
	assert.NotContains(t, body, "ON cat_products")
}
