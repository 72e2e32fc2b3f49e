// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/finemg/fm-api/backtest"
	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	backtestStart   string
	backtestEnd     string
	backtestPersist bool
	backtestVerbose bool
)

func init() {
	backtestCmd.Flags().StringVar(&backtestStart, "start", "2020-01-01", "Simulation start date (yyyy-mm-dd)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "now", "Simulation end date (yyyy-mm-dd)")
	backtestCmd.Flags().BoolVar(&backtestPersist, "persist", false, "Journal the closed trades to the database")
	backtestCmd.Flags().BoolVar(&backtestVerbose, "verbose", false, "Print the activity log")
	rootCmd.AddCommand(backtestCmd)
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Simulate the strategy over historical prices",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		tz := common.GetTimezone()
		begin, err := time.ParseInLocation("2006-01-02", backtestStart, tz)
		if err != nil {
			log.Fatal().Err(err).Str("StartStr", backtestStart).Msg("cannot parse start date")
		}

		end := time.Now().In(tz)
		if backtestEnd != "now" {
			end, err = time.ParseInLocation("2006-01-02", backtestEnd, tz)
			if err != nil {
				log.Fatal().Err(err).Str("EndStr", backtestEnd).Msg("cannot parse end date")
			}
		}

		settings := loadSettings()
		manager := buildManager(ctx)

		result, err := backtest.New(settings, manager).Run(ctx, begin, end)
		if err != nil {
			log.Fatal().Err(err).Msg("backtest failed")
		}

		fmt.Printf("Backtest %s → %s (run %s)\n\n", result.Begin.Format("2006-01-02"), result.End.Format("2006-01-02"), result.RunID)
		fmt.Println(result.Summary.Table())

		if backtestVerbose {
			for _, activity := range result.Activities {
				fmt.Printf("%s  %s\n", activity.Date.Format("2006-01-02"), activity.Msg)
			}
		}

		if backtestPersist {
			if err := store.SaveTrades(ctx, result.RunID, result.Performance.Trades); err != nil {
				log.Fatal().Err(err).Msg("could not persist trades")
			}
		}
	},
}
