// Package server 组装 HTTP 路由与依赖。
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/exports"
	"github.com/ByLCY/cvpress/generator"
	"github.com/ByLCY/cvpress/resumes"
	"github.com/ByLCY/cvpress/server/middleware"
	"github.com/ByLCY/cvpress/server/respond"
	"github.com/ByLCY/cvpress/storage/db"
	"github.com/ByLCY/cvpress/telemetry"
)

// Deps 是路由需要的全部依赖。
type Deps struct {
	Repo    resumes.Repo
	Gen     *generator.Generator
	Exports exports.Store
	// DB 仅在使用 Postgres 时非空，由调用方负责关闭。
	DB *sql.DB
}

// Close 释放 Deps 持有的连接。
func (d Deps) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// BuildDeps 按配置创建依赖。DATABASE_URL 为空或连接失败时退回内存仓库。
func BuildDeps(ctx context.Context, cfg config.Config) (Deps, error) {
	bundle, err := loadBundle(cfg.AssetManifest)
	if err != nil {
		return Deps{}, err
	}
	gen, err := generator.FromBundle(cfg.RenderBackend, bundle)
	if err != nil {
		return Deps{}, err
	}
	store, err := exports.FromConfig(ctx, cfg)
	if err != nil {
		return Deps{}, fmt.Errorf("初始化导出存储失败: %w", err)
	}

	deps := Deps{Gen: gen, Exports: store}
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.fallback", map[string]any{"reason": "connect", "err": err})
		} else if err := db.RunMigrations(ctx, sqlDB); err != nil {
			telemetry.Warn("db.fallback", map[string]any{"reason": "migrate", "err": err})
			_ = sqlDB.Close()
		} else {
			deps.DB = sqlDB
			deps.Repo = &resumes.PGRepo{DB: sqlDB}
		}
	}
	if deps.Repo == nil {
		deps.Repo = resumes.NewMemoryRepo()
	}
	return deps, nil
}

func loadBundle(manifest string) (assets.Bundle, error) {
	if manifest == "" {
		return assets.Default()
	}
	bundle, err := assets.LoadManifest(manifest)
	if err != nil {
		return assets.Bundle{}, fmt.Errorf("加载资源清单失败: %w", err)
	}
	return bundle, nil
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	handler := resumes.NewHandler(resumes.NewService(deps.Repo), deps.Gen, deps.Exports)
	handler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
