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

// Package store persists recommendation runs, trades and settings. Both
// tables are append-only journals; history is never rewritten.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/finemg/fm-api/database"
	"github.com/jackc/pgx/v4"
	"github.com/finemg/fm-api/portfolio"
	"github.com/finemg/fm-api/recommend"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SaveRecommendations appends every recommendation of a run in a single
// transaction.
func SaveRecommendations(ctx context.Context, result *recommend.RunResult) error {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return err
	}

	sql := `INSERT INTO recommendations (run_id, run_date, ticker, name, rank, score, confidence, price, target, breakeven_pct) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, rec := range result.Recommendations {
		if _, err := trx.Exec(ctx, sql, result.RunID, result.AsOf, rec.Security.Ticker, rec.Security.Name,
			rec.Rank, rec.Composite, rec.Confidence, rec.Price, rec.TargetPrice, rec.Breakeven); err != nil {
			log.Error().Err(err).Str("Ticker", rec.Security.Ticker).Msg("could not save recommendation")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Msg("could not commit recommendations")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	return nil
}

// SaveTrades appends the closed trades of a simulation run
func SaveTrades(ctx context.Context, runID uuid.UUID, trades []*portfolio.Position) error {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return err
	}

	sql := `INSERT INTO trades (id, run_id, ticker, name, date_buy, date_sell, qty, price_buy, price_sell, fees, pnl, exit_reason) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, trade := range trades {
		if _, err := trx.Exec(ctx, sql, trade.ID, runID, trade.Security.Ticker, trade.Security.Name,
			trade.EntryDate, trade.ExitDate, trade.Shares, trade.EntryPrice, trade.ExitPrice,
			trade.FeesPaid, trade.PnL, trade.ExitReason); err != nil {
			log.Error().Err(err).Str("Ticker", trade.Security.Ticker).Msg("could not save trade")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Msg("could not commit trades")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	return nil
}

// GetSetting reads one settings key; the fallback is returned when the key
// does not exist.
func GetSetting(ctx context.Context, key, fallback string) (string, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return fallback, err
	}

	var value string
	row := trx.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key)
	if err := row.Scan(&value); err != nil {
		if rollbackErr := trx.Rollback(ctx); rollbackErr != nil {
			log.Error().Err(rollbackErr).Msg("could not rollback transaction")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return fallback, nil
		}
		log.Error().Err(err).Str("Key", key).Msg("could not read setting")
		return fallback, err
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Msg("could not commit transaction")
		return fallback, err
	}

	return value, nil
}

// SetSetting upserts one settings key
func SetSetting(ctx context.Context, key, value string) error {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return err
	}

	sql := `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := trx.Exec(ctx, sql, key, value, time.Now()); err != nil {
		log.Error().Err(err).Str("Key", key).Msg("could not save setting")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Msg("could not commit setting")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	return nil
}
