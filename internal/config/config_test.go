package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "op", cfg.Task)
	assert.Equal(t, 2, cfg.Operands)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.Equal(t, 0.001, cfg.LR)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MNIST_EPOCHS=12\nMNIST_OVERLAP=0.25\nMNIST_SYNTHETIC=true\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("MNIST_EPOCHS")
		os.Unsetenv("MNIST_OVERLAP")
		os.Unsetenv("MNIST_SYNTHETIC")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Epochs)
	assert.Equal(t, 0.25, cfg.Overlap)
	assert.True(t, cfg.Synthetic)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MNIST_OP=product\n"), 0o644))
	t.Setenv("MNIST_OP", "max")
	t.Setenv("MNIST_BATCH_SIZE", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "max", cfg.Op)
	assert.Equal(t, 32, cfg.BatchSize, "unparsable values fall back to defaults")
}

func TestLoad_Seed(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  uint64
	}{
		{name: "positive", value: "42", want: 42},
		{name: "max", value: "18446744073709551615", want: 18446744073709551615},
		{name: "negative falls back", value: "-3", want: 1},
		{name: "garbage falls back", value: "seed", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MNIST_SEED", tt.value)

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Seed)
		})
	}
}
