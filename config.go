package main

import (
	"log"
	"os"
	"path"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/cpu"
)

type Config struct {
	PostKey        string
	ServerAddress  string
	MetricsAddress string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	CDNURL         string
	RootDir        string
	PresetsPath    string
	RenderWorkers  int
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// LoadConfig reads $RENDERER_ROOT_DIR/.env if present, then the environment.
func LoadConfig() *Config {
	rootDir := getEnv("RENDERER_ROOT_DIR", "/var/www/renderer")
	if err := godotenv.Load(path.Join(rootDir, ".env")); err != nil {
		log.Printf("No .env loaded from %s: %v", rootDir, err)
	}

	return &Config{
		PostKey:        os.Getenv("POST_KEY"),
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8001"),
		MetricsAddress: os.Getenv("METRICS_ADDRESS"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       os.Getenv("S3_REGION"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		CDNURL:         os.Getenv("CDN_URL"),
		RootDir:        rootDir,
		PresetsPath:    getEnv("PRESETS_PATH", path.Join(rootDir, "materials.yaml")),
		RenderWorkers:  renderWorkers(os.Getenv("RENDER_WORKERS")),
	}
}

// renderWorkers parses the configured worker count, falling back to the
// number of logical CPUs on the host.
func renderWorkers(value string) int {
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return n
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
