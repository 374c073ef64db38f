package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/medarrival/medarrival-api/internal/application/auth"
	"github.com/medarrival/medarrival-api/internal/application/reports"
	"github.com/medarrival/medarrival-api/internal/application/usecase"
	"github.com/medarrival/medarrival-api/internal/infrastructure/excel"
	infrapdf "github.com/medarrival/medarrival-api/internal/infrastructure/pdf"
	"github.com/medarrival/medarrival-api/internal/infrastructure/postgres"
	"github.com/medarrival/medarrival-api/internal/infrastructure/storage"
	httpRouter "github.com/medarrival/medarrival-api/internal/interfaces/http"
	"github.com/medarrival/medarrival-api/pkg/config"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	priceRepo := postgres.NewPriceComponentRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	arrivalRepo := postgres.NewArrivalRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fileStorage, err := storage.NewFilesystemStorage(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("storage de adjuntos")
	}
	receiptRenderer := infrapdf.NewReceiptRenderer()
	reportRenderer := excel.NewRenderer()

	productUC := usecase.NewProductUseCase(productRepo, priceRepo, clientRepo, txRunner, log)
	clientUC := usecase.NewClientUseCase(clientRepo, productRepo, saleRepo, receiptRepo, log)
	saleUC := usecase.NewSaleUseCase(saleRepo, productRepo, clientRepo, log)
	arrivalUC := usecase.NewArrivalUseCase(arrivalRepo, saleRepo, productRepo, clientRepo, supplierRepo, txRunner, log)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	receiptUC := usecase.NewReceiptUseCase(receiptRepo, clientRepo, productRepo, fileStorage, receiptRenderer, log)
	kpiUC := usecase.NewKpiUseCase(reportRepo)
	exportUC := reports.NewExportUseCase(saleRepo, arrivalRepo, productRepo, clientRepo, reportRenderer, log)
	priceGridUC := reports.NewPriceGridUseCase(productRepo, clientRepo, txRunner, reportRenderer, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024, // adjuntos de recibos
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MedArrival API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		ClientUC:    clientUC,
		SaleUC:      saleUC,
		ArrivalUC:   arrivalUC,
		SupplierUC:  supplierUC,
		ReceiptUC:   receiptUC,
		KpiUC:       kpiUC,
		ExportUC:    exportUC,
		PriceGridUC: priceGridUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
