package app

import (
	"net/http"

	"fintrack-api/internal/config"
	"fintrack-api/internal/db"
	categoriesdomain "fintrack-api/internal/domain/categories"
	reportsdomain "fintrack-api/internal/domain/reports"
	transactionsdomain "fintrack-api/internal/domain/transactions"
	categoriesrepo "fintrack-api/internal/repository/categories"
	reportsrepo "fintrack-api/internal/repository/reports"
	transactionsrepo "fintrack-api/internal/repository/transactions"
	"fintrack-api/internal/transport/httpserver"
	"fintrack-api/internal/transport/httpserver/handler"
	"fintrack-api/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	categoriesService := categoriesdomain.NewService(categoriesrepo.NewPostgres(dbConn))
	transactionsService := transactionsdomain.NewService(transactionsrepo.NewPostgres(dbConn))
	reportsService := reportsdomain.NewService(reportsrepo.NewPostgres(dbConn))

	handlers := handler.New(categoriesService, transactionsService, reportsService, log, !cfg.IsProduction())

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
