package main

import (
	"context"
	"log"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	deps, err := server.BuildDeps(context.Background(), cfg)
	if err != nil {
		log.Fatalf("初始化依赖失败: %v", err)
	}
	defer deps.Close()

	r := server.NewRouter(cfg, deps)
	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
