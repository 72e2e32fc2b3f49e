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
	"fmt"
	"os"

	"github.com/finemg/fm-api/pkginfo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// EODHD market data
	viper.BindEnv("eodhd.token", "EODHD_TOKEN")
	rootCmd.PersistentFlags().String("eodhd-token", "", "EODHD API token; when set prices come from the API instead of the database")
	viper.BindPFlag("eodhd.token", rootCmd.PersistentFlags().Lookup("eodhd-token"))

	viper.BindEnv("eodhd.base_url", "EODHD_BASE_URL")
	rootCmd.PersistentFlags().String("eodhd-base-url", "", "EODHD API base URL")
	viper.BindPFlag("eodhd.base_url", rootCmd.PersistentFlags().Lookup("eodhd-base-url"))

	// Logging configuration
	viper.BindEnv("log.level", "FM_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "FM_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "FM_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in human readable format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
}

var rootCmd = &cobra.Command{
	Use:     "fmapi",
	Version: pkginfo.Version,
	Short:   "Finemg is a momentum advisor for a PEA account",
	Long:    `A momentum equity advisor that ranks the French market, derives fee-adjusted price targets, backtests the strategy and sizes positions with throttled Kelly.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
