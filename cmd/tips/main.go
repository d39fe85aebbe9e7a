// Command tips reports tip percentages of taxi fares by payment type,
// cash against credit card.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jengzang/taxi-analysis/internal/analysis"
	"github.com/jengzang/taxi-analysis/internal/analysis/tips"
	"github.com/jengzang/taxi-analysis/internal/config"
	"github.com/jengzang/taxi-analysis/internal/database"
	"github.com/jengzang/taxi-analysis/internal/metrics"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	collector := metrics.NewCollector()
	runID, err := analysis.Run(ctx, tips.Name, analysis.Deps{
		DB:      db,
		Config:  cfg,
		Metrics: collector,
	})
	if werr := collector.WriteTextfile(cfg.MetricsFile); werr != nil {
		log.Printf("Failed to write metrics: %v", werr)
	}
	if err != nil {
		db.Close()
		log.Fatalf("Run %s failed: %v", runID, err)
	}
}
