package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/tabular"
)

func mappingInput(t *testing.T) *tabular.Table {
	t.Helper()
	raw := "volume_id,collection\n" +
		"ERA_Vene_5,Vene\n" +
		"ERA_Vene_2,Vene\n" +
		"ERA_Vene_5,Setu\n" +
		"KKI_1,KKI\n" +
		",KKI\n"
	tb, err := tabular.Parse([]byte(raw), "canonical.csv")
	require.NoError(t, err)
	return tb
}

func TestMappingRows(t *testing.T) {
	rows, err := mappingRows(mappingInput(t), "")
	require.NoError(t, err)

	// First row per volume wins, so ERA_Vene_5 keeps Vene. Rows without
	// a volume id drop out. Order is collection, then volume id.
	want := [][2]string{
		{"KKI_1", "KKI"},
		{"ERA_Vene_2", "Vene"},
		{"ERA_Vene_5", "Vene"},
	}
	assert.Equal(t, want, rows)
}

func TestMappingRowsCollectionFilter(t *testing.T) {
	rows, err := mappingRows(mappingInput(t), "Vene")
	require.NoError(t, err)

	want := [][2]string{
		{"ERA_Vene_2", "Vene"},
		{"ERA_Vene_5", "Vene"},
	}
	assert.Equal(t, want, rows)
}

func TestMappingRowsRequireColumns(t *testing.T) {
	tb, err := tabular.Parse([]byte("volume_id,notes\nV1,x\n"), "broken.csv")
	require.NoError(t, err)

	_, err = mappingRows(tb, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: collection")
}

func TestWriteMappingTemplate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "maps", "volume_kivike_map.csv")
	rows := [][2]string{
		{"ERA_Vene_2", "Vene"},
		{"ERA_Vene_5", "Vene"},
	}
	require.NoError(t, writeMappingTemplate(out, rows))

	// The template loads back with the same delimiter the volumes
	// command uses.
	tb, err := tabular.LoadDelimited(out, ';')
	require.NoError(t, err)
	require.NoError(t, tb.Require("volume_id", "collection", "kivike_pid", "kivike_url", "notes"))
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, "ERA_Vene_2", tb.Rows[0].Get("volume_id"))
	assert.Equal(t, "Vene", tb.Rows[0].Get("collection"))
	assert.Equal(t, "", tb.Rows[0].Get("kivike_url"))
}
