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
	"bytes"
	"errors"

	"github.com/finemg/fm-api/imports"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type importResponse struct {
	Records  []*imports.TransactionRecord `json:"records"`
	Holdings []*imports.Holding           `json:"holdings"`
}

// ImportStatement parses a Boursorama CSV export from the request body and
// returns the parsed transactions plus the reconciled open positions.
func ImportStatement(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return fiber.ErrNotAcceptable
	}

	records, err := imports.ParseStatement(bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, imports.ErrUnknownFormat) || errors.Is(err, imports.ErrEmptyFile) {
			return fiber.ErrNotAcceptable
		}
		log.Error().Err(err).Msg("could not parse statement")
		return fiber.ErrInternalServerError
	}

	return c.JSON(importResponse{
		Records:  records,
		Holdings: imports.Reconcile(records),
	})
}
