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

// Package risk implements the money-management layer: an aggregate market
// heat measure derived from the benchmark index, and per-position sizing via
// a clamped fractional-Kelly rule.
package risk

import (
	"math"
	"time"

	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/dataframe"

	talib "github.com/markcheno/go-talib"
)

const (
	rsiPeriod      = 14
	highWindowDays = 252
)

// WinProbFunc maps a confidence score in [0, 1] to the Kelly win-probability
// proxy. The mapping is deliberately configurable; confidence is a ranking
// aid, not a calibrated probability.
type WinProbFunc func(confidence float64) float64

// DefaultWinProb is a conservative linear mapping: confidence 0 → 35% win
// probability, confidence 1 → 65%.
func DefaultWinProb(confidence float64) float64 {
	return 0.35 + 0.30*confidence
}

// State is the aggregate market risk measure for one rebalancing date. It is
// recomputed each cycle and kept only as an audit record.
type State struct {
	AsOf               time.Time `json:"asOf"`
	MarketHeat         float64   `json:"marketHeat"`
	RSI                float64   `json:"rsi"`
	DistFrom52WeekHigh float64   `json:"distFrom52WeekHigh"`
}

// Throttle is the global allocation factor implied by market heat: a fully
// overheated market (heat 1) allocates nothing, a cool market allocates the
// full Kelly fraction.
func (s *State) Throttle() float64 {
	return 1.0 - s.MarketHeat
}

// Sizing is the result of sizing one candidate position
type Sizing struct {
	Shares         int64   `json:"shares"`
	EquityFraction float64 `json:"equityFraction"`
	KellyFraction  float64 `json:"kellyFraction"`
}

// Manager sizes positions subject to the configured risk limits
type Manager struct {
	// KellyMultiplier scales the raw Kelly fraction (0.5 = half-Kelly).
	KellyMultiplier float64

	// MaxPositionPct hard-caps the equity fraction of any one position.
	// Kelly is never applied unclamped; raw Kelly on noisy inputs can
	// recommend leverage-like sizing.
	MaxPositionPct float64

	// StopLossPct is the assumed loss per losing trade, the denominator of
	// the Kelly payoff ratio.
	StopLossPct float64

	// NetTargetPct is the gain per winning trade, the numerator of the
	// Kelly payoff ratio.
	NetTargetPct float64

	// WinProb converts confidence into the Kelly win-probability proxy.
	WinProb WinProbFunc
}

// NewManager creates a risk manager with the given limits and the default
// win-probability mapping.
func NewManager(kellyMultiplier, maxPositionPct, stopLossPct, netTargetPct float64) *Manager {
	return &Manager{
		KellyMultiplier: kellyMultiplier,
		MaxPositionPct:  maxPositionPct,
		StopLossPct:     stopLossPct,
		NetTargetPct:    netTargetPct,
		WinProb:         DefaultWinProb,
	}
}

// MarketHeat computes the aggregate risk measure from the benchmark series
// as of the given date. Heat blends RSI(14) at 60% with closeness to the
// 52-week high at 40%, normalized into [0, 1]. A benchmark with too little
// history reports neutral heat (0.5).
func (m *Manager) MarketHeat(benchmark *dataframe.DataFrame, asOf time.Time) *State {
	state := &State{AsOf: asOf, MarketHeat: 0.5, RSI: 50.0}

	trimmed := benchmark.Trim(time.Time{}, asOf)
	closes := trimmed.Col(string(data.MetricClose))
	if len(closes) <= rsiPeriod {
		return state
	}

	rsiSeries := talib.Rsi(closes, rsiPeriod)
	rsi := rsiSeries[len(rsiSeries)-1]
	if math.IsNaN(rsi) {
		rsi = 50.0
	}

	windowStart := len(closes) - highWindowDays
	if windowStart < 0 {
		windowStart = 0
	}
	high := closes[windowStart]
	for _, c := range closes[windowStart:] {
		high = math.Max(high, c)
	}
	current := closes[len(closes)-1]
	dist := (high - current) / high

	// close to the 52-week high reads as hot; 33% or more below as cold
	closeness := math.Max(0.0, 1.0-dist*3.0)
	heat := 0.6*(rsi/100.0) + 0.4*closeness

	state.RSI = rsi
	state.DistFrom52WeekHigh = dist
	state.MarketHeat = clamp(heat, 0.0, 1.0)
	return state
}

// Kelly computes the clamped fractional-Kelly equity fraction for a
// candidate with the given confidence: f = (b×p - q) / b with p the win
// probability proxy, q = 1-p and b the payoff ratio implied by the target
// versus the stop-loss, scaled by the Kelly multiplier and hard-clamped to
// [0, MaxPositionPct].
func (m *Manager) Kelly(confidence float64) float64 {
	b := m.NetTargetPct / m.StopLossPct
	if b <= 0 {
		return 0.0
	}

	p := clamp(m.WinProb(confidence), 0.0, 1.0)
	q := 1.0 - p

	f := (b*p - q) / b
	f *= m.KellyMultiplier
	return clamp(f, 0.0, m.MaxPositionPct)
}

// Size computes the integer share quantity for one candidate given current
// equity and price. The equity fraction is market-heat throttle times the
// Kelly fraction and never exceeds MaxPositionPct. Zero shares is a valid
// result and means "skip this candidate this round".
func (m *Manager) Size(equity, price float64, state *State, confidence float64) *Sizing {
	kelly := m.Kelly(confidence)
	fraction := state.Throttle() * kelly

	sizing := &Sizing{
		EquityFraction: fraction,
		KellyFraction:  kelly,
	}
	if price <= 0 || equity <= 0 {
		return sizing
	}

	sizing.Shares = int64(math.Floor(equity * fraction / price))
	return sizing
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}
