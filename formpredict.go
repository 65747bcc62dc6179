// Package formpredict wires the schema registry, model gateway, page
// controller and surfaces into a ready-to-run application.
package formpredict

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-formpredict/internal/config"
	"github.com/goliatone/go-formpredict/pkg/controller"
	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/inference/store"
	"github.com/goliatone/go-formpredict/pkg/schema"
	"github.com/goliatone/go-formpredict/pkg/server"
	"github.com/goliatone/go-formpredict/pkg/surfaces/web"
)

// TaskSchema aliases schema.TaskSchema.
type TaskSchema = schema.TaskSchema

// FeatureSpec aliases schema.FeatureSpec.
type FeatureSpec = schema.FeatureSpec

// Report aliases controller.Report for callers inspecting cycle outcomes.
type Report = controller.Report

// Config aliases the runtime configuration.
type Config = config.Config

// LoadConfig reads configuration from path (optional), .env and the
// environment.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// App bundles the collaborators built from a Config.
type App struct {
	Config     Config
	Logger     *zap.Logger
	Registry   *schema.Registry
	Gateway    *inference.Gateway
	Controller *controller.Controller

	closers []func() error
}

// New builds the application described by cfg. A nil logger is replaced by
// a no-op logger. When cfg.Models.Preload is set every task's model is
// loaded up front; failures are logged and resurface per request.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry, err := LoadRegistry(cfg.Registry.Dir)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger, Registry: registry}

	src, err := app.openStore(ctx, cfg.Models)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Gateway = inference.NewGateway(src, inference.WithLogger(logger.Named("gateway")))
	app.Controller = controller.New(registry, app.Gateway, controller.WithLogger(logger.Named("controller")))

	if cfg.Models.Preload {
		if err := app.Gateway.Preload(ctx, ModelRefs(registry)...); err != nil {
			logger.Warn("model preload incomplete", zap.Error(err))
		}
	}
	return app, nil
}

// Server builds the HTTP server for the app.
func (a *App) Server(options ...server.Option) (*server.Server, error) {
	webOpts := []web.Option{}
	if t := a.Config.Theme; len(t.Tokens) > 0 || len(t.Variants) > 0 {
		manifest := web.TokensManifest(t.Name, t.Tokens, t.Variants)
		webOpts = append(webOpts, web.WithTheme(web.ThemeConfig(manifest, t.Variant)))
	}
	pages, err := web.New(webOpts...)
	if err != nil {
		return nil, fmt.Errorf("formpredict: %w", err)
	}

	opts := []server.Option{
		server.WithLogger(a.Logger.Named("http")),
		server.WithWebRenderer(pages),
		server.WithMaxBodyBytes(a.Config.Server.MaxBodyBytes),
	}
	if len(a.Config.Server.AllowedOrigins) > 0 {
		opts = append(opts, server.WithAllowedOrigins(a.Config.Server.AllowedOrigins...))
	}
	return server.New(a.Controller, append(opts, options...)...)
}

// Close releases store clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// LoadRegistry reads task documents from dir, or returns the embedded
// default tasks when dir is empty.
func LoadRegistry(dir string) (*schema.Registry, error) {
	if dir == "" {
		return schema.Default()
	}
	registry, err := schema.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("formpredict: load tasks from %s: %w", dir, err)
	}
	return registry, nil
}

// ModelRefs lists the distinct model references of the registry in task
// order.
func ModelRefs(registry *schema.Registry) []string {
	seen := map[string]bool{}
	var refs []string
	for _, s := range registry.Schemas() {
		if !seen[s.ModelRef] {
			seen[s.ModelRef] = true
			refs = append(refs, s.ModelRef)
		}
	}
	return refs
}

func (a *App) openStore(ctx context.Context, cfg config.ModelsConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendEmbedded, "":
		return store.FS(DemoModelsFS()), nil
	case config.BackendDir:
		return store.Dir(cfg.Dir), nil
	case config.BackendS3:
		client, err := store.NewS3Client(ctx, store.S3Config{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("formpredict: %w", err)
		}
		return store.S3(client, cfg.Bucket, cfg.Prefix), nil
	case config.BackendRedis:
		client := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		a.closers = append(a.closers, client.Close)
		return store.Redis(client, cfg.Prefix), nil
	case config.BackendGCS:
		client, err := store.NewGCSClient(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("formpredict: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return store.GCS(client, cfg.Bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("formpredict: unknown model backend %q", cfg.Backend)
	}
}
