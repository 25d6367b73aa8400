package main

import (
	"encoding/json"
	"log"
	"os"

	"backend/config"
	"backend/controllers"
	"backend/routes"
	"backend/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	prompt, schema := loadAIAssets(cfg.AI, logger)

	hub := services.NewEventsHub()
	foods := services.NewOpenFoodFactsClient(cfg.FoodDB, logger)

	// without a key the resolver skips the AI strategy entirely
	var ai services.NutritionEstimator
	if cfg.AI.APIKey != "" {
		ai = services.NewNutritionAIService(cfg.AI, prompt, schema, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, AI estimation disabled")
	}
	resolver := services.NewNutritionResolver(foods, ai, logger)

	entrySvc := services.NewFoodEntryService(db, resolver, hub, logger)
	goalSvc := services.NewGoalService(db, hub)
	yoloSvc := services.NewYoloService(db, hub)
	dashSvc := services.NewDashboardService(db)

	r := routes.SetupRouter(db, cfg.JWTSecret, routes.Controllers{
		Nutrition: controllers.NewNutritionController(resolver),
		Entries:   controllers.NewFoodEntryController(entrySvc),
		Goals:     controllers.NewGoalController(goalSvc),
		Dashboard: controllers.NewDashboardController(dashSvc),
		Yolo:      controllers.NewYoloController(yoloSvc),
		Events:    controllers.NewEventsController(hub),
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// loadAIAssets reads the prompt and schema files once at startup; built-in
// defaults are used when they are not configured.
func loadAIAssets(cfg config.AIConfig, logger *zap.Logger) (string, json.RawMessage) {
	prompt := services.DefaultNutritionPrompt
	if cfg.PromptFile != "" {
		b, err := os.ReadFile(cfg.PromptFile)
		if err != nil {
			logger.Fatal("failed to read AI prompt file", zap.Error(err))
		}
		prompt = string(b)
	}

	schema := json.RawMessage(services.DefaultNutritionSchema)
	if cfg.SchemaFile != "" {
		b, err := os.ReadFile(cfg.SchemaFile)
		if err != nil {
			logger.Fatal("failed to read AI schema file", zap.Error(err))
		}
		if !json.Valid(b) {
			logger.Fatal("AI schema file is not valid JSON", zap.String("path", cfg.SchemaFile))
		}
		schema = json.RawMessage(b)
	}

	return prompt, schema
}
