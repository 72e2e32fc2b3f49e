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

package data

import (
	"context"
	"time"

	"github.com/finemg/fm-api/database"

	"github.com/rs/zerolog/log"
)

// PgProvider reads end-of-day bars from the eod table in PostgreSQL
type PgProvider struct{}

func NewPgProvider() *PgProvider {
	return &PgProvider{}
}

func (p *PgProvider) GetEOD(ctx context.Context, ticker string, begin, end time.Time) ([]*Bar, error) {
	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Err(err).Msg("could not begin transaction")
		return nil, err
	}

	rows, err := trx.Query(ctx,
		`SELECT event_date, open, high, low, close, volume FROM eod WHERE ticker = $1 AND event_date BETWEEN $2 AND $3 ORDER BY event_date ASC`,
		ticker, begin, end)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not query eod prices")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	bars := make([]*Bar, 0, 260)
	for rows.Next() {
		bar := &Bar{}
		if err := rows.Scan(&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			subLog.Error().Err(err).Msg("could not scan eod row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		bars = append(bars, bar)
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Err(err).Msg("could not commit transaction")
	}

	if len(bars) == 0 {
		return nil, ErrDataUnavailable
	}

	return bars, nil
}
