package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHMMs(t *testing.T) {
	input := sampleHMM("As_lyase_1", 245, 12) + sampleHMM("Cu_efflux_copA", 780, 40)

	models, err := ReadHMMs(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "As_lyase_1", models[0].Name)
	assert.Equal(t, "test profile", models[0].Description)
	assert.Equal(t, 245, models[0].Length)
	assert.Equal(t, 12, models[0].NSeq)
	assert.True(t, strings.HasPrefix(string(models[0].Raw), "HMMER3/f"))
	assert.True(t, strings.HasSuffix(string(models[0].Raw), "//\n"))

	assert.Equal(t, "Cu_efflux_copA", models[1].Name)
	assert.Equal(t, 780, models[1].Length)
	assert.NotContains(t, string(models[1].Raw), "As_lyase_1")
}

func TestReadHMMs_Empty(t *testing.T) {
	models, err := ReadHMMs(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestReadHMMs_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not hmmer3", input: "# STOCKHOLM 1.0\n//\n"},
		{name: "missing name", input: strings.Replace(sampleHMM("X", 10, 1), "NAME  X\n", "", 1)},
		{name: "unterminated", input: strings.TrimSuffix(sampleHMM("X", 10, 1), "//\n")},
		{name: "bad length", input: strings.Replace(sampleHMM("X", 10, 1), "LENG  10", "LENG  ten", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHMMs(strings.NewReader(tt.input))
			require.Error(t, err)
			var fe *HMMFormatError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestOpenHMMDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.hmm")
	require.NoError(t, os.WriteFile(path, []byte(sampleHMM("Hg_merA_1", 100, 3)), 0o644))

	hdb, err := OpenHMMDB(path)
	require.NoError(t, err)
	assert.Equal(t, 1, hdb.Len())
	assert.Equal(t, path, hdb.Path)
	assert.Equal(t, "Hg_merA_1", hdb.Models()[0].Name)

	_, err = OpenHMMDB(filepath.Join(t.TempDir(), "missing.hmm"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var nilDB *HMMDB
	assert.Equal(t, 0, nilDB.Len())
}
