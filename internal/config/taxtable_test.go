package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaxBrackets(t *testing.T) {
	data := []byte(`
brackets:
  - threshold: 0
    rate: 0
  - threshold: 100000
    rate: 0.06
  - threshold: "141667"
    rate: "0.18"
`)

	brackets, err := ParseTaxBrackets(data)
	require.NoError(t, err)
	require.Len(t, brackets, 3)
	assert.True(t, brackets[1].Threshold.Equal(decimal.NewFromInt(100000)))
	assert.True(t, brackets[1].Rate.Equal(decimal.RequireFromString("0.06")))
	assert.True(t, brackets[2].Threshold.Equal(decimal.NewFromInt(141667)))
}

func TestParseTaxBrackets_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty table", "brackets: []"},
		{"unordered thresholds", "brackets:\n  - {threshold: 100, rate: 0.1}\n  - {threshold: 50, rate: 0.2}"},
		{"rate above one", "brackets:\n  - {threshold: 0, rate: 1.5}"},
		{"not a number", "brackets:\n  - {threshold: abc, rate: 0.1}"},
		{"malformed yaml", "brackets: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaxBrackets([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadTaxBrackets(t *testing.T) {
	brackets, err := LoadTaxBrackets("")
	require.NoError(t, err)
	assert.Nil(t, brackets)

	path := filepath.Join(t.TempDir(), "brackets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brackets:\n  - {threshold: 0, rate: 0.1}\n"), 0o600))

	brackets, err = LoadTaxBrackets(path)
	require.NoError(t, err)
	require.Len(t, brackets, 1)

	_, err = LoadTaxBrackets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadTaxBrackets_SampleTable(t *testing.T) {
	brackets, err := LoadTaxBrackets(filepath.Join("..", "..", "configs", "tax_brackets.yaml"))
	require.NoError(t, err)
	require.Len(t, brackets, 4)
	assert.True(t, brackets[3].Rate.Equal(decimal.RequireFromString("0.24")))
}
