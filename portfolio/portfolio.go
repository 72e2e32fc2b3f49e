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

// Package portfolio owns the simulated portfolio state: positions, the
// equity curve and the performance statistics derived from them. All values
// are owned by the run that produced them; nothing here is shared mutable
// state across concurrent runs.
package portfolio

import (
	"time"

	"github.com/finemg/fm-api/data"

	"github.com/google/uuid"
)

// Exit reasons recorded on closed positions
const (
	ExitTargetHit = "TARGET_HIT"
	ExitCycleEnd  = "CYCLE_END"
	ExitFinal     = "FINAL"
)

// Position is one simulated holding. A position is closed (Shares kept,
// Open set false) rather than deleted, so the trade log retains it.
type Position struct {
	ID            uuid.UUID      `json:"id"`
	Security      *data.Security `json:"security"`
	EntryDate     time.Time      `json:"entryDate"`
	EntryPrice    float64        `json:"entryPrice"`
	Shares        int64          `json:"shares"`
	FeesPaid      float64        `json:"feesPaid"`
	TargetPrice   float64        `json:"targetPrice"`
	Confidence    float64        `json:"confidence"`
	KellyFraction float64        `json:"kellyFraction"`

	Open       bool      `json:"open"`
	ExitDate   time.Time `json:"exitDate,omitempty"`
	ExitPrice  float64   `json:"exitPrice,omitempty"`
	ExitReason string    `json:"exitReason,omitempty"`
	PnL        float64   `json:"pnl"`
}

// NewPosition opens a position; the buy leg fee is recorded immediately
func NewPosition(security *data.Security, date time.Time, price float64, shares int64, fee float64) *Position {
	return &Position{
		ID:         uuid.New(),
		Security:   security,
		EntryDate:  date,
		EntryPrice: price,
		Shares:     shares,
		FeesPaid:   fee,
		Open:       true,
	}
}

// Close marks the position closed and records the sell leg
func (pos *Position) Close(date time.Time, price, fee float64, reason string) {
	pos.Open = false
	pos.ExitDate = date
	pos.ExitPrice = price
	pos.ExitReason = reason
	pos.FeesPaid += fee
	pos.PnL = float64(pos.Shares)*(price-pos.EntryPrice) - pos.FeesPaid
}

// MarketValue returns the position value at the given price
func (pos *Position) MarketValue(price float64) float64 {
	return float64(pos.Shares) * price
}

// EquityPoint is one day on the equity curve
type EquityPoint struct {
	Date        time.Time `json:"date"`
	Cash        float64   `json:"cash"`
	MarketValue float64   `json:"marketValue"`
	TotalEquity float64   `json:"totalEquity"`
}

// Activity is one entry of the explainability log: which tickers were
// skipped on which date and why, which cycles degraded to a smaller
// eligible set, and similar facts a caller needs to explain a run's output.
type Activity struct {
	Date time.Time `json:"date"`
	Msg  string    `json:"msg"`
	Tags []string  `json:"tags"`
}
