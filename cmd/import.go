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

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/imports"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <statement.csv>",
	Short: "Parse a Boursorama CSV export and print the reconciled holdings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		fh, err := os.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("cannot open statement")
		}
		defer fh.Close()

		records, err := imports.ParseStatement(fh)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("cannot parse statement")
		}

		holdings := imports.Reconcile(records)
		fmt.Printf("%d transactions, %d open positions\n\n", len(records), len(holdings))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ISIN", "Label", "Qty", "Avg Price", "Invested"})
		table.SetBorder(false)
		for _, holding := range holdings {
			table.Append([]string{
				holding.ISIN,
				holding.Label,
				fmt.Sprintf("%.0f", holding.QuantityHeld),
				fmt.Sprintf("%.2f", holding.AvgBuyPrice),
				fmt.Sprintf("%.2f", holding.TotalInvested),
			})
		}
		table.Render()
	},
}
