package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-drive/internal/common/api"
	"go-drive/internal/config"
	"go-drive/internal/database"
	"go-drive/internal/features/drive"
	"go-drive/internal/features/events"
	"go-drive/internal/features/inventory"
	"go-drive/internal/features/system"
	"go-drive/internal/logger"
	"go-drive/internal/middleware"
	"go-drive/pkg/utils"

	_ "go-drive/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.MaxUploadMB << 20,
		StreamRequestBody:     true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeSchema ensures the metadata tables exist before serving
func InitializeSchema(lc fx.Lifecycle, pg *database.PostgresDB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return pg.EnsureSchema(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Databases
			database.NewPostgres,
			database.NewMongo,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Storage primitives
			func(cfg *config.Config) (*drive.PathResolver, error) {
				return drive.NewPathResolver(cfg.StorageRoot)
			},
			drive.NewScanner,

			// Initialize Repository
			drive.NewFileRepository,
			drive.NewFolderRepository,
			drive.NewShareRepository,
			inventory.NewInventoryRepository,

			// Event hub
			events.NewHub,
			func(h *events.Hub) drive.EventPublisher { return h },

			// Initialize Service
			drive.NewDriveService,
			drive.NewShareService,
			inventory.NewInventoryService,

			// Initialize Controller
			drive.NewDriveController,
			inventory.NewInventoryController,
			events.NewEventsController,

			// Initialize API Routes
			AsRoute(drive.NewDriveApi),
			AsRoute(inventory.NewInventoryApi),
			AsRoute(events.NewEventsApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			InitializeSchema,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, inventoryService inventory.InventoryService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return inventoryService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return inventoryService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
