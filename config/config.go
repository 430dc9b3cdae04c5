// Package config 从环境变量读取服务配置。
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// 导出存储类型。
const (
	ExportNone  = "none"
	ExportLocal = "local"
	ExportS3    = "s3"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	AssetManifest   string
	RenderBackend   string
	ExportStore     string
	ExportDir       string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "5000"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AssetManifest:   getEnv("ASSET_MANIFEST", ""),
		RenderBackend:   strings.ToLower(getEnv("RENDER_BACKEND", "fpdf")),
		ExportStore:     strings.ToLower(getEnv("EXPORT_STORE", ExportNone)),
		ExportDir:       getEnv("EXPORT_DIR", "./exports"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		Env:             strings.ToLower(getEnv("ENV", "dev")),
	}
}

// Validate 检查取值组合是否合法。
func (c Config) Validate() error {
	switch c.RenderBackend {
	case "fpdf", "canvas":
	default:
		return fmt.Errorf("RENDER_BACKEND 取值无效: %q", c.RenderBackend)
	}
	switch c.ExportStore {
	case ExportNone, ExportLocal:
	case ExportS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("EXPORT_STORE=s3 需要设置 S3_BUCKET")
		}
	default:
		return fmt.Errorf("EXPORT_STORE 取值无效: %q", c.ExportStore)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
