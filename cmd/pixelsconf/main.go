package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/pixels-conf/internal/application"
	"github.com/eugenenazirov/pixels-conf/internal/config"
	"github.com/eugenenazirov/pixels-conf/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("pixelsconf", "Pixels configuration registry - resolves writer settings from table properties, store files, and defaults")
	kingpinApp.UsageWriter(stdout)
	kingpinApp.ErrorWriter(stderr)

	exitCode := -1
	kingpinApp.Terminate(func(code int) {
		if exitCode < 0 {
			exitCode = code
		}
	})

	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	dotEnvFile := kingpinApp.Flag("dotenv", "Path to a .env file loaded before the environment is read").String()
	storeFiles := kingpinApp.Flag("store", "YAML store file; repeat to layer several, later files win").Strings()
	propertiesFile := kingpinApp.Flag("properties", "Table properties file (key=value)").String()
	props := kingpinApp.Flag("prop", "Scoped override key=value; repeatable").StringMap()
	var envSet bool
	envOverlay := kingpinApp.Flag("env", "Overlay PIXELS_* and HIVE_EXEC_PIXELS_* environment variables onto the store").IsSetByUser(&envSet).Bool()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	logFile := kingpinApp.Flag("log-file", "Also write logs to this rotating file").String()

	serveCmd := kingpinApp.Command("serve", "Serve the settings API over HTTP")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	listCmd := kingpinApp.Command("list", "List every known setting with its default and description")

	getCmd := kingpinApp.Command("get", "Print the effective value of a setting")
	getKey := getCmd.Arg("key", "Canonical setting key").Required().String()

	setCmd := kingpinApp.Command("set", "Validate a value and print the resulting store entry (not persisted)")
	setKey := setCmd.Arg("key", "Canonical setting key").Required().String()
	setValue := setCmd.Arg("value", "New value").Required().String()

	explainCmd := kingpinApp.Command("explain", "Show every setting with its effective value and the layer that supplied it")

	optionsCmd := kingpinApp.Command("options", "Print the resolved writer options as YAML")

	command, err := kingpinApp.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "pixelsconf: %v\n", err)
		return 2
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		DotEnvFile: *dotEnvFile,
		StoreFiles: *storeFiles,
	}

	if *propertiesFile != "" {
		overrides.PropertiesFile = propertiesFile
	}

	if envSet {
		overrides.EnvOverlay = envOverlay
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *logFile != "" {
		overrides.LogFile = logFile
	}

	if *port != "" {
		overrides.Port = port
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	if command == serveCmd.FullCommand() {
		return serve(cfg, logger)
	}

	src, err := application.LoadSources(cfg, *props)
	if err != nil {
		logger.Error("failed to load configuration sources", zap.Error(err))
		return 1
	}

	cli := &cli{out: stdout, src: src, logger: logger}
	switch command {
	case listCmd.FullCommand():
		err = cli.list()
	case getCmd.FullCommand():
		err = cli.get(*getKey)
	case setCmd.FullCommand():
		err = cli.set(*setKey, *setValue)
	case explainCmd.FullCommand():
		err = cli.explain()
	case optionsCmd.FullCommand():
		err = cli.options()
	}
	if err != nil {
		fmt.Fprintf(stderr, "pixelsconf %s: %v\n", command, err)
		return 1
	}
	return 0
}

func serve(cfg config.Config, logger *zap.Logger) int {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 1
	}

	if err := app.Start(); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		return 1
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return 0
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
