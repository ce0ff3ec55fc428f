package main

import (
	"context"
	"flag"
	"time"

	"eventro/internal/config"
	"eventro/internal/database"
	"eventro/internal/external"
	"eventro/internal/logger"
	"eventro/internal/repository"
	"eventro/internal/search"
	"eventro/internal/service"
)

func main() {
	var batchSize int
	var recreate bool
	flag.IntVar(&batchSize, "batch", 500, "Events read from PostgreSQL per batch")
	flag.BoolVar(&recreate, "recreate", false, "Drop and recreate the index before indexing")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	if !cfg.Elasticsearch.Enabled() {
		logger.Fatal("ELASTICSEARCH_URL is not set")
	}

	ctx := context.Background()

	// Connect to database
	log.Info("Connecting to database")
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	index, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	if recreate {
		log.Info("Dropping events index", "index", cfg.Elasticsearch.Index)
		if err := index.DeleteIndex(ctx); err != nil {
			logger.Fatal("Failed to drop index", "error", err)
		}
		// клиент создает индекс с маппингом при подключении
		index, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Fatal("Failed to recreate index", "error", err)
		}
	}

	services := service.NewServices(repository.NewRepositories(db), service.Deps{
		Index:     index,
		Functions: external.NewFunctionsClient(cfg.Functions),
	})

	start := time.Now()
	indexed, err := services.Events.Reindex(ctx, batchSize)
	if err != nil {
		logger.Fatal("Reindex failed", "indexed", indexed, "error", err)
	}

	elapsed := time.Since(start)
	log.Info("Reindex completed",
		"indexed", indexed,
		"duration", elapsed.String(),
		"events_per_second", float64(indexed)/elapsed.Seconds())
}
