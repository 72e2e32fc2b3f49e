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

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/recommend"
	"github.com/finemg/fm-api/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	recommendDate    string
	recommendPersist bool
)

func init() {
	recommendCmd.Flags().StringVar(&recommendDate, "date", "now", "Run date (yyyy-mm-dd)")
	recommendCmd.Flags().BoolVar(&recommendPersist, "persist", false, "Journal the run to the database")
	rootCmd.AddCommand(recommendCmd)
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the universe and print buy recommendations",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		asOf := time.Now()
		if recommendDate != "now" {
			var err error
			asOf, err = time.ParseInLocation("2006-01-02", recommendDate, common.GetTimezone())
			if err != nil {
				log.Fatal().Err(err).Str("DateStr", recommendDate).Msg("cannot parse date")
			}
		}

		settings := loadSettings()
		manager := buildManager(ctx)

		result, err := recommend.New(settings, manager).Run(ctx, asOf)
		if err != nil {
			log.Fatal().Err(err).Msg("recommendation run failed")
		}

		fmt.Printf("Recommendations as of %s (market heat %.2f)\n\n", result.AsOf.Format("2006-01-02"), result.Risk.MarketHeat)
		fmt.Println(result.Table())

		if recommendPersist {
			if err := store.SaveRecommendations(ctx, result); err != nil {
				log.Fatal().Err(err).Msg("could not persist recommendations")
			}
		}
	},
}
