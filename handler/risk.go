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
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/risk"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const riskLookbackCalendarDays = 550

// GetRisk returns the market heat state as of the date query parameter
func GetRisk(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "date", "now")
	if err != nil {
		log.Error().Err(err).Str("DateStr", c.Query("date")).Msg("cannot parse date query parameter")
		return fiber.ErrNotAcceptable
	}

	benchmarkSecurity, err := data.BenchmarkSecurity()
	if err != nil {
		return fiber.ErrInternalServerError
	}

	benchmark, err := manager.PriceSeries(c.Context(), benchmarkSecurity.Ticker, asOf.AddDate(0, 0, -riskLookbackCalendarDays), asOf)
	if err != nil {
		log.Error().Err(err).Str("Ticker", benchmarkSecurity.Ticker).Msg("could not load benchmark series")
		return fiber.ErrInternalServerError
	}

	riskManager := risk.NewManager(settings.KellyMultiplier, settings.MaxPositionPct, settings.StopLossPct, settings.NetTargetPct)
	return c.JSON(riskManager.MarketHeat(benchmark, asOf))
}
