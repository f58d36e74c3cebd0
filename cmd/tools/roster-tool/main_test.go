package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"rank-boost/pkg/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Recommend(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"recommend", "-current", "黄金", "-target", "铂金"}, &out))
	assert.Equal(t, "黄金 -> 铂金: 神医 (player4, price 0.80, matched)\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"recommend", "-current", "青铜", "-target", "大师"}, &out))
	assert.Contains(t, out.String(), "闪电侠")
	assert.Contains(t, out.String(), "fallback")
}

func TestRun_RecommendRequiresRanks(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"recommend", "-current", "黄金"}, &out)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, out.String(), "current and target are required")
}

func TestRun_InitUpdateValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "roster.json")
	var out bytes.Buffer

	require.NoError(t, run([]string{"init", "-path", path}, &out))
	require.NoError(t, run([]string{"validate", "-path", path}, &out))
	assert.Contains(t, out.String(), "Found 4 providers")

	require.NoError(t, run([]string{"update", "-path", path, "-id", "player3", "-field", "priceFactor", "-value", "0.5"}, &out))
	r, err := roster.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, r.Providers[2].PriceFactor)

	out.Reset()
	require.NoError(t, run([]string{"recommend", "-path", path, "-current", "黄金", "-target", "铂金"}, &out))
	assert.Contains(t, out.String(), "堡垒")
}

func TestRun_UpdateErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	var out bytes.Buffer
	require.NoError(t, run([]string{"init", "-path", path}, &out))

	tests := []struct {
		name string
		args []string
	}{
		{"unknown provider", []string{"update", "-path", path, "-id", "nobody", "-field", "name", "-value", "x"}},
		{"unknown field", []string{"update", "-path", path, "-id", "player1", "-field", "rating", "-value", "x"}},
		{"bad price", []string{"update", "-path", path, "-id", "player1", "-field", "priceFactor", "-value", "cheap"}},
		{"invalid result", []string{"update", "-path", path, "-id", "player1", "-field", "skilledRanks", "-value", "王者"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args, &out))
		})
	}

	r, err := roster.Load(path)
	require.NoError(t, err)
	assert.Equal(t, roster.Default().Providers, r.Providers, "failed updates leave the file untouched")
}

func TestRun_Show(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"show"}, &out))
	assert.Contains(t, out.String(), "神医 (player4) level=5 skill=1..4 price=0.80")
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, run([]string{"frobnicate"}, &out), errUsage)
	assert.Contains(t, out.String(), "Usage: roster-tool")

	assert.ErrorIs(t, run(nil, &out), errUsage)
}
