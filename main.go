package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"salespredict/http"
	"salespredict/logging"
	"salespredict/ml"
	"salespredict/monitoring"
)

// Config is the process configuration, read from a YAML file with optional
// environment overrides.
type Config struct {
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	HTTP struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log logging.Config `yaml:"log"`
}

func loadConfig(path string) Config {
	var cfg Config
	cfg.Model.Path = "models/sales_model.json"
	cfg.HTTP.Port = 8080
	cfg.HTTP.TimeoutSeconds = 30
	cfg.HTTP.AllowedOrigins = []string{"*"}

	payload, err := os.ReadFile(path)
	if err != nil {
		// missing config file falls back to defaults
		return cfg
	}
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		log.Fatalf("parse config %s: %v", path, err)
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func main() {
	godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg := loadConfig(configPath)
	applyEnvOverrides(&cfg)

	logger := logging.New(cfg.Log)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	repo := ml.NewRepository(cfg.Model.Path, logger)
	if err := repo.Load(); err != nil {
		logger.Fatal("failed to load model artifact", zap.Error(err))
	}

	useCase := ml.NewPredictUseCase(repo, ml.NewEngine())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := monitoring.NewHub(logger)
	go hub.Run(ctx)

	go func() {
		err := repo.Watch(ctx, func(artifact *ml.ModelArtifact) {
			monitoring.ModelReloads.Inc()
			hub.Publish(monitoring.Event{
				Type: monitoring.EventModelSwap,
				Data: map[string]string{"algorithm": artifact.Algorithm, "version": artifact.Version},
			})
		})
		if err != nil {
			logger.Warn("artifact watcher stopped", zap.Error(err))
		}
	}()

	http.SetPredictor(useCase)
	http.SetMonitorHub(hub)

	server := http.NewServer(http.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	cancel()
	if err := server.Stop(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
