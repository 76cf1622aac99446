package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RedHatInsights/connection-catalog/internal/config"
	"github.com/RedHatInsights/connection-catalog/internal/connection_repository"
	"github.com/RedHatInsights/connection-catalog/internal/controller/api"
	"github.com/RedHatInsights/connection-catalog/internal/platform/db"
	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"
	"github.com/RedHatInsights/connection-catalog/internal/platform/table"
	"github.com/RedHatInsights/connection-catalog/internal/platform/utils"
	"github.com/redhatinsights/platform-go-middlewares/request_id"

	"github.com/gorilla/mux"
)

func startConnectionCatalogApiServer(mgmtAddr string) {

	logger.InitLogger()
	defer logger.FlushLogger()

	logger.Log.Info("Starting Connection-Catalog service")

	cfg := config.GetConfig()
	logger.Log.Info("Connection-Catalog configuration:\n", cfg)

	connectionTable := buildConnectionTable(cfg)

	connectionStore := connection_repository.NewConnectionStore(connectionTable)

	eventAnnouncer, err := connection_repository.NewConnectionEventAnnouncer(cfg.ConnectionEventsImpl, cfg)
	if err != nil {
		logger.LogFatalError("Unable to create connection event announcer", err)
	}

	apiMux := mux.NewRouter()
	apiMux.Use(request_id.ConfiguredRequestID("x-rh-insights-request-id"))

	monitoringServer := api.NewMonitoringServer(apiMux, cfg)
	monitoringServer.Routes()

	mgmtServer := api.NewConnectionManagementServer(connectionStore, eventAnnouncer, apiMux, cfg.UrlBasePath, cfg)
	mgmtServer.Routes()

	apiSrv := utils.StartHTTPServer(mgmtAddr, "management", apiMux)

	signalChan := make(chan os.Signal, 1)

	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalChan
	logger.Log.Info("Received signal to shutdown: ", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HttpShutdownTimeout)
	defer cancel()

	utils.ShutdownHTTPServer(ctx, "management", apiSrv)

	logger.Log.Info("Connection-Catalog shutting down")
}

func buildConnectionTable(cfg *config.Config) table.Table {

	switch cfg.ConnectionTableImpl {
	case "postgres":
		database, err := db.InitializeDatabaseConnection(cfg)
		if err != nil {
			logger.LogFatalError("Unable to connect to database: ", err)
		}
		return table.NewPostgresTable(database, cfg.ConnectionDatabaseQueryTimeout)
	case "memory":
		logger.Log.Warn("Using the in-memory connections table - data will not survive a restart")
		return table.NewInMemoryTable()
	default:
		logger.Log.Fatalf("Invalid connection table impl - %s", cfg.ConnectionTableImpl)
		return nil
	}
}
