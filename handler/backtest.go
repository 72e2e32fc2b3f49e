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

package handler

import (
	"errors"
	"strconv"

	"github.com/finemg/fm-api/backtest"
	"github.com/finemg/fm-api/store"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RunBacktest simulates the strategy between startDate and endDate and
// returns the run summary, equity curve, trades and activity log. With
// persist=true the closed trades are journaled to the database.
func RunBacktest(c *fiber.Ctx) error {
	startDate, err := parseDateQuery(c, "startDate", "2020-01-01")
	if err != nil {
		log.Error().Err(err).Str("StartDateStr", c.Query("startDate")).Msg("cannot parse startDate query parameter")
		return fiber.ErrNotAcceptable
	}

	endDate, err := parseDateQuery(c, "endDate", "now")
	if err != nil {
		log.Error().Err(err).Str("EndDateStr", c.Query("endDate")).Msg("cannot parse endDate query parameter")
		return fiber.ErrNotAcceptable
	}

	bt := backtest.New(settings, manager)
	result, err := bt.Run(c.Context(), startDate, endDate)
	if err != nil {
		if errors.Is(err, backtest.ErrNoTradingDays) {
			return fiber.ErrNotAcceptable
		}
		log.Error().Stack().Err(err).Time("StartDate", startDate).Time("EndDate", endDate).Msg("backtest failed")
		return fiber.ErrInternalServerError
	}

	if c.QueryBool("persist") {
		if err := store.SaveTrades(c.Context(), result.RunID, result.Performance.Trades); err != nil {
			log.Error().Err(err).Str("RunID", result.RunID.String()).Msg("could not persist trades")
		}
	}

	return c.JSON(result)
}

// GetTrades returns previously persisted trades
func GetTrades(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return fiber.ErrNotAcceptable
	}

	trades, err := store.Trades(c.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("could not load trades")
		return fiber.ErrInternalServerError
	}

	return c.JSON(trades)
}
