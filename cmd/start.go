package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pmteambuilder/core/loader"
	"pmteambuilder/core/logger"
	"pmteambuilder/core/middleware/auth"
	"pmteambuilder/core/middleware/rayid"
	"pmteambuilder/feature/integrity"
	"pmteambuilder/feature/pokedex"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "pmteambuilder/docs/swagger"
)

// @title Team Builder API
// @version 1.0
// @description Reference data and team-builder reads for Pokémon teams.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the team builder server",
	Long:  `Starts the HTTP server and the sync scheduler.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		zap.ReplaceGlobals(a.logger)
		logg := a.logger

		if !a.cfg.Server.IsValidEnvironment() {
			logg.Warn("Unknown environment, assuming development", zap.String("environment", a.cfg.Server.Environment))
		}

		go pokesync.NewScheduler(a.orchestrator, a.cfg.Sync, logg).Start(ctx)

		go func() {
			if err := a.query.Prewarm(ctx); err != nil {
				logg.Warn("Initial cache prewarm incomplete", zap.Error(err))
			}
		}()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(pokedex.NewFeature(a.query, a.orchestrator, logg))
		mgr.Register(integrity.NewFeature(a.db, a.tracker, integrity.Options{
			Client: a.objects,
			Bucket: a.cfg.Storage.Bucket,
			Object: a.cfg.Progress.Object,
			Stages: pokesync.Stages(),
		}, logg))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		if !a.cfg.Server.IsProduction() {
			app.Get("/swagger/*", swagger.HandlerDefault)
		}

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
