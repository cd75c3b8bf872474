package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrices(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVolatilityFromFile(t *testing.T) {
	t.Parallel()

	path := writePrices(t, `time,price
2026-01-24T09:30:00Z,100.00
2026-01-24T09:30:10Z,104.00
2026-01-24T09:30:20Z,99.00
2026-01-24T09:30:30Z,105.00
`)

	vol, err := volatilityFromFile(path)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)
}

func TestVolatilityFromFileConstantPrices(t *testing.T) {
	t.Parallel()

	path := writePrices(t, `time,price
2026-01-24T09:30:00Z,100.00
2026-01-24T09:30:10Z,100.00
2026-01-24T09:30:20Z,100.00
`)

	vol, err := volatilityFromFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 0, vol, 1e-12)
}

func TestVolatilityFromFileTooFewPrices(t *testing.T) {
	t.Parallel()

	path := writePrices(t, "2026-01-24T09:30:00Z,100.00\n")

	_, err := volatilityFromFile(path)
	assert.ErrorContains(t, err, "at least two prices")
}

func TestVolatilityFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := volatilityFromFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
