package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"msigcheck/internal/application"
	"msigcheck/internal/config"
	"msigcheck/internal/infrastructure/frxeth"
	"msigcheck/internal/infrastructure/logging"
	"msigcheck/internal/infrastructure/safe"
	"msigcheck/internal/infrastructure/telemetry"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Default().Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "msigcheck",
		Usage:   "Check the validator keys queued for addition in the frxETH multisig",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime),
		Flags: []cli.Flag{
			// NO_COLOR is read by config, where any non-empty value counts.
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output (also set by a non-empty NO_COLOR)",
			},
		},
		Action: action,
	}
}

func action(c *cli.Context) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.Default().Error("config error:", err)
		return cli.Exit("", 1)
	}
	if c.Bool("no-color") {
		cfg.NoColor = true
	}

	logger, err := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		NoColor: cfg.NoColor,
		File: logging.FileConfig{
			Path:          cfg.LogFile,
			MaxSizeMB:     cfg.LogMaxSizeMB,
			MaxBackups:    cfg.LogMaxBackups,
			RotateOnStart: cfg.LogRotateOnStart,
		},
	})
	if err != nil {
		logging.Default().Error("logger error:", err)
		return cli.Exit("", 1)
	}
	defer logger.Close()

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.InitTracer(ctx, "msigcheck", version, cfg.OtelEndpoint)
	if err != nil {
		logger.Warn("tracing init error:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown error:", err)
		}
	}()

	if _, err := run(ctx, cfg, logger, &http.Client{Timeout: cfg.HTTPTimeout}); err != nil {
		logger.Error(err)
		return cli.Exit("", 1)
	}
	return nil
}

func run(ctx context.Context, cfg config.Config, logger logging.Logger, httpClient *http.Client) (application.Report, error) {
	validators, err := frxeth.NewClient(frxeth.Config{
		URL:        cfg.ValidatorAPIURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return application.Report{}, err
	}
	queue, err := safe.NewClient(safe.Config{
		BaseURL:     cfg.SafeClientURL,
		ChainID:     cfg.ChainID,
		SafeAddress: cfg.SafeAddress,
		HTTPClient:  httpClient,
	})
	if err != nil {
		return application.Report{}, err
	}

	checker, err := application.NewChecker(validators, queue, logger, application.CheckerConfig{
		ExpectedTo:     cfg.ExpectedToAddress,
		TargetMethod:   cfg.TargetMethod,
		ArrayParam:     cfg.ArrayParam,
		ExpectedStatus: cfg.ExpectedStatus,
	})
	if err != nil {
		return application.Report{}, err
	}
	return checker.Run(ctx)
}
