package main

import (
	"flag"

	"eventro/internal/config"
	"eventro/internal/logger"
	"eventro/internal/validation"
)

func main() {
	cfg := config.Load()

	var baseURL, token string
	flag.StringVar(&baseURL, "url", cfg.BaseURL, "Base URL for API validation")
	flag.StringVar(&token, "token", "", "Bearer token; issued from JWT_SECRET when empty")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()
	log.Info("Starting API validation", "url", baseURL)

	if token == "" {
		token = validation.TokenFromConfig(cfg)
	}

	validator := validation.NewSpecValidator(baseURL, token)
	if err := validator.ValidateAll(); err != nil {
		logger.Fatal("Валидация не пройдена", "error", err)
	}

	log.Info("Валидация успешно пройдена")
}
