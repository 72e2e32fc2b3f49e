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

	"github.com/finemg/fm-api/data"
	"github.com/gofiber/fiber/v2"
)

// ListUniverse returns the investable universe
func ListUniverse(c *fiber.Ctx) error {
	return c.JSON(data.Universe())
}

// GetSecurity returns one universe member by ticker
func GetSecurity(c *fiber.Ctx) error {
	security, err := data.SecurityFromTicker(c.Params("ticker"))
	if err != nil {
		if errors.Is(err, data.ErrUnknownSecurity) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(security)
}
