package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/pixels-conf/internal/api"
	"github.com/eugenenazirov/pixels-conf/internal/config"
	"github.com/eugenenazirov/pixels-conf/internal/settings"
	"github.com/eugenenazirov/pixels-conf/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	store  *storage.KoanfStore
	props  settings.Properties
	router http.Handler
	logger *zap.Logger
	server *http.Server
}

// Sources bundles the global store and scoped properties described by cfg.
type Sources struct {
	Store      *storage.KoanfStore
	Properties settings.Properties
}

// LoadSources builds the global store from the configured YAML files and
// environment, then layers extra on top of the properties file.
func LoadSources(cfg config.Config, extra map[string]string) (Sources, error) {
	store, err := storage.NewKoanfStore(storage.KoanfOptions{
		Files: cfg.StoreFiles,
		Env:   cfg.EnvOverlay,
	})
	if err != nil {
		return Sources{}, fmt.Errorf("failed to load configuration store: %w", err)
	}

	props, err := storage.LoadProperties(cfg.PropertiesFile)
	if err != nil {
		return Sources{}, fmt.Errorf("failed to load table properties: %w", err)
	}

	return Sources{
		Store:      store,
		Properties: storage.MergeProperties(props, extra),
	}, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	src, err := LoadSources(cfg, nil)
	if err != nil {
		return nil, err
	}
	logger.Info("configuration store loaded",
		zap.Strings("store_files", cfg.StoreFiles),
		zap.Bool("env_overlay", cfg.EnvOverlay),
		zap.String("properties_file", cfg.PropertiesFile),
		zap.Int("scoped_properties", len(src.Properties)),
	)

	handler := api.NewHandler(src.Store, api.WithProperties(src.Properties))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		store:  src.Store,
		props:  src.Properties,
		router: apiRouter,
		logger: logger,
		server: NewServer(cfg, apiRouter),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Store returns the global configuration store served by the API.
func (a *App) Store() *storage.KoanfStore {
	return a.store
}

// Properties returns the scoped properties applied to every request.
func (a *App) Properties() settings.Properties {
	return a.props
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}
