package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/kleros/linguo-engine/pkg/logger"
	"github.com/kleros/linguo-engine/pkg/settings"
	"github.com/kleros/linguo-engine/pkg/taskFilter"
	"github.com/kleros/linguo-engine/pkg/taskLister"
)

var (
	listStatus   string
	listAllTasks bool
	listAccount  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List mirrored tasks for a filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, _ := logger.NewLogger(&logger.LoggerConfig{Debug: Config.Debug})

		filter := defaultListFilter()
		if cmd.Flags().Changed("status") {
			filter.Status = taskFilter.ParseFilterName(listStatus)
			filter.AllTasks = listAllTasks
			if filter.Status == taskFilter.FilterOpen {
				filter.AllTasks = true
			}
		}

		store, err := newTaskStore(Config)
		if err != nil {
			return err
		}
		defer store.Close()

		lister := taskLister.NewTaskLister(store, log)
		views, err := lister.List(context.Background(), filter, common.HexToAddress(listAccount), time.Now())
		if err != nil {
			return err
		}

		for _, v := range views {
			fmt.Printf("%-12s %-14s incomplete=%-5v party=%-10s price=%s remaining=%s\n",
				v.Task.ID,
				v.Status,
				v.Incomplete,
				v.Party,
				v.CurrentPrice.String(),
				v.FormattedRemaining,
			)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", string(taskFilter.FilterOpen), "status filter name")
	listCmd.Flags().BoolVar(&listAllTasks, "all-tasks", true, "include everyone's tasks, not only the account's")
	listCmd.Flags().StringVar(&listAccount, "account", "", "account address used for party resolution")
}

// defaultListFilter restores the persisted filter when a settings file is
// configured, falling back to the engine default.
func defaultListFilter() taskFilter.Filter {
	if Config.SettingsFile == "" {
		return taskFilter.DefaultFilter()
	}
	data, err := os.ReadFile(Config.SettingsFile)
	if err != nil {
		return taskFilter.DefaultFilter()
	}
	s, err := settings.Load(data)
	if err != nil {
		return taskFilter.DefaultFilter()
	}
	return s.TaskFilter()
}
