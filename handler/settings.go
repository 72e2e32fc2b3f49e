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
	"github.com/finemg/fm-api/store"
	"github.com/gofiber/fiber/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// GetSettings returns the active strategy settings
func GetSettings(c *fiber.Ctx) error {
	return c.JSON(settings)
}

type settingUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateSetting journals one settings override to the database. Overrides
// take effect on the next restart; the running process keeps its validated
// configuration.
func UpdateSetting(c *fiber.Ctx) error {
	update := settingUpdate{}
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		log.Error().Err(err).Msg("cannot parse setting update body")
		return fiber.ErrNotAcceptable
	}
	if update.Key == "" {
		return fiber.ErrNotAcceptable
	}

	if err := store.SetSetting(c.Context(), update.Key, update.Value); err != nil {
		log.Error().Err(err).Str("Key", update.Key).Msg("could not save setting")
		return fiber.ErrInternalServerError
	}

	return c.JSON(update)
}
