package main

// 执行数据库迁移：
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate -cmd status
//   go run ./cmd/migrate -cmd down

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/storage/db"
)

func main() {
	command := flag.String("cmd", "up", "迁移命令：up、status 或 down")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch *command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	case "down":
		err = db.RollbackOne(ctx, sqlDB)
	default:
		log.Printf("unknown migrate command %q", *command)
		os.Exit(2)
	}
	if err != nil {
		log.Printf("migrate %s failed: %v", *command, err)
		os.Exit(1)
	}
}
