package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMaterial_ResolutionOrder(t *testing.T) {
	materials := []MaterialRecord{
		{ID: "1", Name: "Birch plywood", Article: "PLY-18"},
		{ID: "2", Name: "ply-18", Article: "OTHER"},
		{ID: "3", Name: "Veneer", Article: "VEN-1"},
	}

	tests := []struct {
		name   string
		ref    MaterialRef
		wantID string
	}{
		{"by id", MaterialRef{MaterialID: "3"}, "3"},
		{"id wins over article", MaterialRef{MaterialID: "3", Article: "PLY-18"}, "3"},
		{"article case-insensitive trimmed", MaterialRef{Article: "  ply-18 "}, "1"},
		{"article wins over name", MaterialRef{Article: "ply-18", Name: "Veneer"}, "1"},
		{"name case-insensitive", MaterialRef{Name: "VENEER"}, "3"},
		{"unknown id falls through to name", MaterialRef{MaterialID: "99", Name: "veneer"}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindMaterial(tt.ref, materials)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFindMaterial_NoMatch(t *testing.T) {
	assert.Nil(t, FindMaterial(MaterialRef{MaterialID: "1"}, nil))
	assert.Nil(t, FindMaterial(MaterialRef{Name: "missing"}, sampleDatasets().Materials))
	assert.Nil(t, FindMaterial(MaterialRef{}, sampleDatasets().Materials), "empty reference must not match empty article")
}
