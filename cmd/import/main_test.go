package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseOnly(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Unit", "Price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Birch plywood", "m2", 900}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Glue", "kg", "n/a"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var out bytes.Buffer
	require.NoError(t, parseOnly(bytes.NewReader(buf.Bytes()), "", &out))

	var got struct {
		Valid []struct {
			Line  int    `json:"line"`
			Name  string `json:"name"`
			Price string `json:"price"`
		} `json:"valid"`
		Failed []struct {
			Line int `json:"line"`
		} `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Valid, 1)
	assert.Equal(t, "Birch plywood", got.Valid[0].Name)
	assert.Equal(t, "900", got.Valid[0].Price)
	require.Len(t, got.Failed, 1)
	assert.Equal(t, 3, got.Failed[0].Line)
}

func TestParseOnly_NotAWorkbook(t *testing.T) {
	var out bytes.Buffer
	err := parseOnly(bytes.NewReader([]byte("plain text")), "", &out)
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}
