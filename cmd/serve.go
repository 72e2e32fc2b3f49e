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
	"os"
	"os/signal"
	"time"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/handler"
	"github.com/finemg/fm-api/recommend"
	"github.com/finemg/fm-api/router"
	"github.com/finemg/fm-api/store"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	serveCmd.Flags().String("schedule-at", "18:30", "Time of day (HH:MM, market timezone) to run the daily recommendation job")
	viper.BindPFlag("server.schedule_at", serveCmd.Flags().Lookup("schedule-at"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fm-api server",
	Long:  `Run HTTP server that implements the Finemg advisory API`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		settings := loadSettings()
		manager := buildManager(ctx)
		handler.Setup(settings, manager)

		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		})

		// shutdown cleanly on interrupt
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		go func() {
			sig := <-quit
			log.Info().Str("Signal", sig.String()).Msg("received signal; shutting down")
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("error shutting down server")
			}
		}()

		app.Use(cors.New(cors.Config{
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}))

		router.SetupRoutes(app)

		// run the recommender every evening after the close and journal
		// the result
		scheduler := gocron.NewScheduler(common.GetTimezone())
		scheduler.Every(1).Day().At(viper.GetString("server.schedule_at")).Do(func() {
			recommender := recommend.New(settings, manager)
			result, err := recommender.Run(ctx, time.Now())
			if err != nil {
				log.Error().Err(err).Msg("scheduled recommendation run failed")
				return
			}
			if err := store.SaveRecommendations(ctx, result); err != nil {
				log.Error().Err(err).Str("RunID", result.RunID.String()).Msg("could not persist scheduled run")
			}
		})
		scheduler.StartAsync()

		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("server exited with error")
		}
	},
}
