package main

import (
	"persona-server/internal/config"
	"persona-server/internal/domain/imagery"
	"persona-server/internal/domain/tokenusage"
	"persona-server/internal/infrastructure/billing"
	"persona-server/internal/infrastructure/database"
	"persona-server/internal/infrastructure/database/repository/personarepo"
	"persona-server/internal/infrastructure/database/repository/planrepo"
	"persona-server/internal/infrastructure/database/repository/subscriptionrepo"
	"persona-server/internal/infrastructure/database/repository/tokenusagerepo"
	"persona-server/internal/infrastructure/database/repository/widgetrepo"
	"persona-server/internal/infrastructure/logger"
	"persona-server/internal/interfaces/httpserver"
	"persona-server/internal/interfaces/httpserver/handlers/billinghandler"
	"persona-server/internal/interfaces/httpserver/handlers/chathandler"
	"persona-server/internal/interfaces/httpserver/handlers/embedhandler"
	"persona-server/internal/interfaces/httpserver/handlers/personagenhandler"
	"persona-server/internal/interfaces/httpserver/handlers/speechhandler"
	"persona-server/internal/interfaces/httpserver/handlers/widgethandler"
	v1 "persona-server/internal/interfaces/httpserver/routes/v1"
	"persona-server/internal/utils/httpclients"
	"persona-server/internal/utils/httpclients/integrationclient"
	"persona-server/internal/utils/httpclients/openaiclient"
)

// CreateApplication wires the full dependency graph by hand.
func CreateApplication(cfg *config.Config) (*Application, error) {
	log := logger.GetLogger()

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migration(db); err != nil {
			return nil, err
		}
	}

	procedures := database.NewProcedureClient(db)
	personas := personarepo.NewPersonaGormRepository(db)
	plans := planrepo.NewPlanGormRepository(db)
	subscriptions := subscriptionrepo.NewSubscriptionGormRepository(db)
	widgetMessages := widgetrepo.NewWidgetGormRepository(db)
	usageRepo := tokenusagerepo.NewTokenUsageGormRepository(db)

	tokens := tokenusage.NewService(usageRepo, procedures)

	providerClient := openaiclient.New(
		httpclients.NewClient("openai", cfg.HTTPTimeout),
		cfg.OpenAIBaseURL,
		cfg.OpenAIAPIKey,
	)
	integrations := integrationclient.New(httpclients.NewClient("integration", cfg.HTTPTimeout))
	extractor := imagery.NewExtractor(providerClient, cfg.CompletionModel)

	billingService := billing.NewService(cfg, plans, subscriptions)

	chatHandler := chathandler.NewChatHandler(
		providerClient, providerClient, extractor, integrations, procedures, tokens, cfg)
	widgetHandler := widgethandler.NewWidgetHandler(
		providerClient, procedures, personas, widgetMessages, cfg)
	personaGenHandler := personagenhandler.NewPersonaGenerateHandler(providerClient, cfg)
	speechHandler := speechhandler.NewSpeechHandler(providerClient, cfg)
	billingHandler := billinghandler.NewBillingHandler(billingService)
	embedHandler := embedhandler.NewEmbedHandler(personas, cfg)

	v1Route := v1.NewV1Route(
		chatHandler, widgetHandler, personaGenHandler, speechHandler, billingHandler, embedHandler)

	server := httpserver.NewHTTPServer(v1Route, embedHandler, cfg, log)

	return &Application{httpServer: server}, nil
}
