package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kleros/linguo-engine/pkg/config"
	"github.com/kleros/linguo-engine/pkg/engineConfig"
	"github.com/kleros/linguo-engine/pkg/logger"
	"github.com/kleros/linguo-engine/pkg/shutdown"
	"github.com/kleros/linguo-engine/pkg/taskPoller"
	"github.com/kleros/linguo-engine/pkg/taskPoller/httpTaskSource"
	"github.com/kleros/linguo-engine/pkg/tasksStore"
	badgerStore "github.com/kleros/linguo-engine/pkg/tasksStore/badger"
	"github.com/kleros/linguo-engine/pkg/tasksStore/memory"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the task mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		initRunCmd(cmd)

		log, _ := logger.NewLogger(&logger.LoggerConfig{Debug: Config.Debug})
		sugar := log.Sugar()

		if err := Config.Validate(); err != nil {
			sugar.Errorw("Invalid configuration", "error", err)
			return err
		}

		sugar.Infow("Starting task mirror...")

		return runWithShutdown(func(ctx context.Context) error {
			return startMirror(ctx, Config, log)
		}, log)
	},
}

func initRunCmd(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(config.KebabToSnakeCase(f.Name), f); err != nil {
			fmt.Printf("Failed to bind flag '%s': %+v\n", f.Name, err)
		}
		if err := viper.BindEnv(f.Name); err != nil {
			fmt.Printf("Failed to bind env '%s': %+v\n", f.Name, err)
		}
	})
}

func runWithShutdown(startFunc func(ctx context.Context) error, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := startFunc(ctx); err != nil {
		return err
	}

	gracefulShutdownNotifier := shutdown.CreateGracefulShutdownChannel()
	done := make(chan bool)

	shutdown.ListenForShutdown(gracefulShutdownNotifier, done, func() {
		logger.Sugar().Info("Shutting down task mirror...")
		cancel()
	}, 5*time.Second, logger)

	return nil
}

func newTaskStore(cfg *engineConfig.EngineConfig) (tasksStore.TaskStore, error) {
	switch cfg.Storage.Type {
	case "badger":
		return badgerStore.NewBadgerTaskStore(&badgerStore.Config{Dir: cfg.Storage.BadgerDir})
	default:
		return memory.NewInMemoryTaskStore(), nil
	}
}

func startMirror(ctx context.Context, cfg *engineConfig.EngineConfig, log *zap.Logger) error {
	store, err := newTaskStore(cfg)
	if err != nil {
		return err
	}

	source := httpTaskSource.NewHttpTaskSource(cfg.IndexerURL, log)
	pollerConfig := &taskPoller.TaskPollerConfig{
		Contract:        common.HexToAddress(cfg.ContractAddress),
		PollingInterval: time.Duration(cfg.PollingIntervalSeconds) * time.Second,
	}
	poller := taskPoller.NewTaskPoller(source, store, pollerConfig, log)

	go func() {
		<-ctx.Done()
		if err := store.Close(); err != nil {
			log.Sugar().Warnw("Failed to close task store", "error", err)
		}
	}()

	return poller.Start(ctx)
}
