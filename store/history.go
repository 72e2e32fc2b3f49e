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

package store

import (
	"context"
	"time"

	"github.com/finemg/fm-api/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecommendationRow is one persisted recommendation line
type RecommendationRow struct {
	RunID        uuid.UUID `json:"runId"`
	RunDate      time.Time `json:"runDate"`
	Ticker       string    `json:"ticker"`
	Name         string    `json:"name"`
	Rank         int       `json:"rank"`
	Score        float64   `json:"score"`
	Confidence   float64   `json:"confidence"`
	Price        float64   `json:"price"`
	Target       float64   `json:"target"`
	BreakevenPct float64   `json:"breakevenPct"`
}

// TradeRow is one persisted trade
type TradeRow struct {
	ID         uuid.UUID `json:"id"`
	RunID      uuid.UUID `json:"runId"`
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name"`
	DateBuy    time.Time `json:"dateBuy"`
	DateSell   time.Time `json:"dateSell"`
	Qty        int64     `json:"qty"`
	PriceBuy   float64   `json:"priceBuy"`
	PriceSell  float64   `json:"priceSell"`
	Fees       float64   `json:"fees"`
	PnL        float64   `json:"pnl"`
	ExitReason string    `json:"exitReason"`
}

// RecommendationHistory returns the most recent persisted recommendations,
// newest run first.
func RecommendationHistory(ctx context.Context, limit int) ([]*RecommendationRow, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return nil, err
	}

	sql := `SELECT run_id, run_date, ticker, name, rank, score, confidence, price, target, breakeven_pct FROM recommendations ORDER BY run_date DESC, rank ASC LIMIT $1`
	rows, err := trx.Query(ctx, sql, limit)
	if err != nil {
		log.Error().Err(err).Msg("could not query recommendation history")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	history := make([]*RecommendationRow, 0, limit)
	for rows.Next() {
		row := &RecommendationRow{}
		if err := rows.Scan(&row.RunID, &row.RunDate, &row.Ticker, &row.Name, &row.Rank,
			&row.Score, &row.Confidence, &row.Price, &row.Target, &row.BreakevenPct); err != nil {
			log.Error().Err(err).Msg("could not scan recommendation row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		history = append(history, row)
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Msg("could not commit transaction")
		return nil, err
	}

	return history, nil
}

// Trades returns persisted trades, newest entry first
func Trades(ctx context.Context, limit int) ([]*TradeRow, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return nil, err
	}

	sql := `SELECT id, run_id, ticker, name, date_buy, date_sell, qty, price_buy, price_sell, fees, pnl, exit_reason FROM trades ORDER BY date_buy DESC LIMIT $1`
	rows, err := trx.Query(ctx, sql, limit)
	if err != nil {
		log.Error().Err(err).Msg("could not query trades")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	trades := make([]*TradeRow, 0, limit)
	for rows.Next() {
		row := &TradeRow{}
		if err := rows.Scan(&row.ID, &row.RunID, &row.Ticker, &row.Name, &row.DateBuy, &row.DateSell,
			&row.Qty, &row.PriceBuy, &row.PriceSell, &row.Fees, &row.PnL, &row.ExitReason); err != nil {
			log.Error().Err(err).Msg("could not scan trade row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		trades = append(trades, row)
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Msg("could not commit transaction")
		return nil, err
	}

	return trades, nil
}
