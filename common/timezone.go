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

package common

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	tzOnce sync.Once
	tz     *time.Location
)

// GetTimezone returns the Euronext Paris reference timezone. All trading
// dates are normalized to midnight in this zone.
func GetTimezone() *time.Location {
	tzOnce.Do(func() {
		var err error
		tz, err = time.LoadLocation("Europe/Paris")
		if err != nil {
			log.Panic().Err(err).Msg("could not load Europe/Paris timezone")
		}
	})
	return tz
}

// MidnightInTz truncates t to midnight in the Paris reference timezone.
func MidnightInTz(t time.Time) time.Time {
	year, month, day := t.In(GetTimezone()).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, GetTimezone())
}
