package main

import (
	"nutriplan/config"
	"nutriplan/controllers"
	"nutriplan/pkg/logger"
	"nutriplan/routes"
	"nutriplan/services"
)

func main() {
	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	generator := services.NewOpenAIPlanGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	userSvc := services.NewUserService(db)
	logSvc := services.NewDailyLogService(db)
	planSvc := services.NewMealPlanService(db, generator, cfg.OpenAI.Timeout, log)
	statsSvc := services.NewStatsService(db)
	supplementSvc := services.NewSupplementService(db)

	r := routes.SetupRouter(
		controllers.NewUserController(userSvc, statsSvc),
		controllers.NewDailyLogController(logSvc),
		controllers.NewMealPlanController(planSvc),
		controllers.NewSupplementController(supplementSvc),
	)

	log.Infow("server starting", "port", cfg.Server.Port, "model", cfg.OpenAI.Model)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
