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

	"github.com/finemg/fm-api/config"
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// loadSettings reads and validates the strategy settings
func loadSettings() *config.Settings {
	settings, err := config.FromViper()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid strategy settings")
	}
	return settings
}

// buildManager wires the price data manager. An EODHD token routes price
// requests to the API; otherwise prices come from the eod table in
// PostgreSQL.
func buildManager(ctx context.Context) *data.Manager {
	token := viper.GetString("eodhd.token")
	if token != "" {
		return data.NewManager(data.NewEODApi(token, viper.GetString("eodhd.base_url")))
	}

	if err := database.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	return data.NewManager(data.NewPgProvider())
}
