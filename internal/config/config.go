// Package config resolves run settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file. Command-line flags use them as defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings of a training run.
type Config struct {
	DataDir   string
	Mirror    string
	Download  bool
	Synthetic bool

	SyntheticTrain int
	SyntheticTest  int

	Task     string
	Op       string
	Operands int
	Overlap  float64

	CountTrain int
	CountTest  int
	BufferSize int
	BatchSize  int
	Seed       uint64

	Epochs  int
	Hidden  int
	LR      float64
	LRDecay float64
	LREvery int

	CSVPath   string
	PlotPath  string
	HTMLPath  string
	ModelPath string
}

// Load reads envFile (if it exists) into the environment and returns the
// resulting configuration. Variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		DataDir:   getEnv("MNIST_DATA_DIR", "./data"),
		Mirror:    getEnv("MNIST_MIRROR", ""),
		Download:  getEnvAsBool("MNIST_DOWNLOAD", false),
		Synthetic: getEnvAsBool("MNIST_SYNTHETIC", false),

		SyntheticTrain: getEnvAsInt("MNIST_SYNTHETIC_TRAIN", 60000),
		SyntheticTest:  getEnvAsInt("MNIST_SYNTHETIC_TEST", 10000),

		Task:     getEnv("MNIST_TASK", "op"),
		Op:       getEnv("MNIST_OP", "sum"),
		Operands: getEnvAsInt("MNIST_OPERANDS", 2),
		Overlap:  getEnvAsFloat("MNIST_OVERLAP", 0),

		CountTrain: getEnvAsInt("MNIST_COUNT_TRAIN", 3000),
		CountTest:  getEnvAsInt("MNIST_COUNT_TEST", 1000),
		BufferSize: getEnvAsInt("MNIST_BUFFER_SIZE", 3000),
		BatchSize:  getEnvAsInt("MNIST_BATCH_SIZE", 32),
		Seed:       getEnvAsUint64("MNIST_SEED", 1),

		Epochs:  getEnvAsInt("MNIST_EPOCHS", 5),
		Hidden:  getEnvAsInt("MNIST_HIDDEN", 128),
		LR:      getEnvAsFloat("MNIST_LR", 0.001),
		LRDecay: getEnvAsFloat("MNIST_LR_DECAY", 1),
		LREvery: getEnvAsInt("MNIST_LR_EVERY", 1),

		CSVPath:   getEnv("MNIST_CSV", ""),
		PlotPath:  getEnv("MNIST_PLOT", ""),
		HTMLPath:  getEnv("MNIST_HTML", ""),
		ModelPath: getEnv("MNIST_SAVE", ""),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(value, 10, 64); err == nil {
			return u
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
