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

// Package handler implements the HTTP API endpoints
package handler

import (
	"time"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/config"
	"github.com/finemg/fm-api/data"
	"github.com/gofiber/fiber/v2"
)

var (
	settings *config.Settings
	manager  *data.Manager
)

// Setup provides the handlers with their shared dependencies; it must be
// called before any route is served.
func Setup(cfg *config.Settings, mgr *data.Manager) {
	settings = cfg
	manager = mgr
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2026-06-19T08:09:10.115924+02:00"`
}

func Ping(c *fiber.Ctx) error {
	now, _ := time.Now().MarshalText()
	return c.JSON(PingResponse{
		Status:  "success",
		Message: "API is alive",
		Time:    string(now),
	})
}

// parseDateQuery reads a yyyy-mm-dd query parameter in the market timezone;
// the literal "now" (and the default) resolve to today.
func parseDateQuery(c *fiber.Ctx, name string, fallback string) (time.Time, error) {
	str := c.Query(name, fallback)
	tz := common.GetTimezone()
	if str == "now" {
		return common.MidnightInTz(time.Now().In(tz)), nil
	}
	t, err := time.ParseInLocation("2006-01-02", str, tz)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
