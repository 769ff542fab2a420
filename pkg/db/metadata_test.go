package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadataJSON = `{
  "models": [
    {"id": "As_lyase_1", "metal_type": ["Arsenic"], "resistance_type": "Enzymatic detoxification"},
    {"id": "Cu_copA_1", "metal_type": ["Copper", "Silver"], "resistance_type": "Efflux"},
    {"metal_type": ["Zinc"], "resistance_type": "Efflux"},
    {"id": "Hg_merA_1", "resistance_type": "Reduction"}
  ],
  "metadata": {"total_models": 4, "metal_types": [], "resistance_types": []}
}`

func TestOpenMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browse_models_data.json")
	require.NoError(t, os.WriteFile(path, []byte(metadataJSON), 0o644))

	md, err := OpenMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, 3, md.Len())
	assert.Len(t, md.Records(), 3)

	ann, ok := md.Lookup("Cu_copA_1")
	assert.True(t, ok)
	assert.Equal(t, []string{"Copper", "Silver"}, ann.MetalType)
	assert.Equal(t, "Efflux", ann.ResistanceType)

	ann, ok = md.Lookup("Hg_merA_1")
	assert.True(t, ok)
	assert.Equal(t, []string{}, ann.MetalType)

	rec, ok := md.Record("As_lyase_1")
	assert.True(t, ok)
	assert.Equal(t, "Enzymatic detoxification", rec.ResistanceType)
}

func TestMetadataLookup_MissingDefaults(t *testing.T) {
	md := NewMetadata(nil)

	ann, ok := md.Lookup("unknown")
	assert.False(t, ok)
	assert.NotNil(t, ann.MetalType)
	assert.Empty(t, ann.MetalType)
	assert.Equal(t, "", ann.ResistanceType)

	var nilMD *Metadata
	ann, ok = nilMD.Lookup("unknown")
	assert.False(t, ok)
	assert.Equal(t, []string{}, ann.MetalType)
}

func TestNewMetadata_DuplicateKeepsLast(t *testing.T) {
	md := NewMetadata([]ModelRecord{
		{ID: "A", ResistanceType: "first"},
		{ID: "B"},
		{ID: "A", ResistanceType: "second"},
	})

	assert.Equal(t, 2, md.Len())
	ann, _ := md.Lookup("A")
	assert.Equal(t, "second", ann.ResistanceType)
	assert.Equal(t, "A", md.Records()[0].ID)
}

func TestOpenMetadata_Errors(t *testing.T) {
	_, err := OpenMetadata(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = OpenMetadata(path)
	assert.Error(t, err)
}
