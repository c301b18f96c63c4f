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

	"github.com/jhoicas/suministros-api/internal/application/auth"
	"github.com/jhoicas/suministros-api/internal/application/catalog"
	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/application/stock"
	"github.com/jhoicas/suministros-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suministros-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/suministros-api/internal/interfaces/http"
	"github.com/jhoicas/suministros-api/pkg/config"
	"github.com/jhoicas/suministros-api/pkg/logger"
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

	// Repositorios atados al pool: lecturas y catálogo. Las mutaciones del
	// ledger pasan siempre por el TxRunner con repos atados a la transacción.
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	lowStockRepo := postgres.NewLowStockRepository(pool)
	requisitionRepo := postgres.NewRequisitionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var notifier requisition.Notifier
	if cfg.SMTP.Enabled() {
		notifier = notify.NewMailer(cfg.SMTP, userRepo, departmentRepo, log)
	}

	stockMutationUC := stock.NewMutationUseCase(txRunner, itemRepo, locationRepo)
	stockQueryUC := stock.NewQueryUseCase(stockRepo, movementRepo, lowStockRepo)
	workflowUC := requisition.NewWorkflowUseCase(txRunner, requisitionRepo, departmentRepo, itemRepo, notifier)
	slipUC := requisition.NewSlipUseCase(requisitionRepo, departmentRepo, itemRepo, infrapdf.NewMarotoSlipGenerator())

	itemUC := catalog.NewItemUseCase(itemRepo)
	locationUC := catalog.NewLocationUseCase(locationRepo)
	departmentUC := catalog.NewDepartmentUseCase(departmentRepo, locationRepo)
	authUC := auth.NewAuthUseCase(userRepo, departmentRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Suministros API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ItemUC:        itemUC,
		LocationUC:    locationUC,
		DepartmentUC:  departmentUC,
		StockMutation: stockMutationUC,
		StockQuery:    stockQueryUC,
		WorkflowUC:    workflowUC,
		SlipUC:        slipUC,
		JWTSecret:     cfg.JWT.Secret,
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
