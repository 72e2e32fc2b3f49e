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

	"github.com/finemg/fm-api/recommend"
	"github.com/finemg/fm-api/store"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// GetRecommendations runs the recommender as of the date query parameter
// (default today) and returns the ranked candidates. With persist=true the
// run is also journaled to the database.
func GetRecommendations(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "date", "now")
	if err != nil {
		log.Error().Err(err).Str("DateStr", c.Query("date")).Msg("cannot parse date query parameter")
		return fiber.ErrNotAcceptable
	}

	recommender := recommend.New(settings, manager)
	result, err := recommender.Run(c.Context(), asOf)
	if err != nil {
		if errors.Is(err, recommend.ErrNoCandidates) {
			return fiber.ErrNotFound
		}
		log.Error().Stack().Err(err).Time("AsOf", asOf).Msg("recommendation run failed")
		return fiber.ErrInternalServerError
	}

	if c.QueryBool("persist") {
		if err := store.SaveRecommendations(c.Context(), result); err != nil {
			log.Error().Err(err).Str("RunID", result.RunID.String()).Msg("could not persist recommendations")
		}
	}

	return c.JSON(result)
}

// GetRecommendationHistory returns previously persisted recommendation runs
func GetRecommendationHistory(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		return fiber.ErrNotAcceptable
	}

	history, err := store.RecommendationHistory(c.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("could not load recommendation history")
		return fiber.ErrInternalServerError
	}

	return c.JSON(history)
}
