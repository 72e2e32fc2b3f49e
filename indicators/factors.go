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

// Package indicators computes the per-ticker factor set that feeds the
// composite momentum score. All windows are trading-day counts; calendar
// gaps are skipped, never interpolated. Computation is pure and
// deterministic for identical inputs.
package indicators

import (
	"errors"
	"math"
	"time"

	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/dataframe"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientHistory = errors.New("insufficient price history for factor computation")
)

// FactorSet holds the raw factor values for one security on one date
type FactorSet struct {
	Security    *data.Security `json:"security"`
	AsOf        time.Time      `json:"asOf"`
	Perf12M     float64        `json:"perf12m"`
	Momentum3M  float64        `json:"mom3m"`
	Stability4W float64        `json:"stability4w"`
	Liquidity   float64        `json:"liquidity"`
}

// Engine computes factor sets from normalized price series
type Engine struct {
	// Perf12MDays is the relative performance lookback in trading days and
	// doubles as the minimum history requirement.
	Perf12MDays int

	// Momentum3MDays is the rate-of-change lookback in trading days.
	Momentum3MDays int

	// StabilityWeeks is the calendar-week window for the stability factor.
	StabilityWeeks int

	// LiquidityDays is the trailing window for the average traded value.
	LiquidityDays int

	// StabilityCap bounds the stability factor; it is hit when the weekly
	// return standard deviation is zero (flat series).
	StabilityCap float64
}

// NewEngine creates a factor engine with the standard windows
func NewEngine() *Engine {
	return &Engine{
		Perf12MDays:    252,
		Momentum3MDays: 63,
		StabilityWeeks: 4,
		LiquidityDays:  20,
		StabilityCap:   100.0,
	}
}

// Compute derives the factor set for a security as of the given date. The
// series must hold at least Perf12MDays bars at or before asOf, otherwise
// the computation fails with ErrInsufficientHistory and the caller excludes
// the security from that date's universe.
func (e *Engine) Compute(security *data.Security, series, benchmark *dataframe.DataFrame, asOf time.Time) (*FactorSet, error) {
	trimmed := series.Trim(time.Time{}, asOf)
	closes := trimmed.Col(string(data.MetricClose))
	n := len(closes)

	if n < e.Perf12MDays {
		return nil, ErrInsufficientHistory
	}

	windowStart := trimmed.Dates[n-e.Perf12MDays]
	perf12m := closes[n-1]/closes[n-e.Perf12MDays] - 1.0
	perf12m -= benchmarkReturn(benchmark, windowStart, asOf)

	momentum3m := closes[n-1]/closes[n-e.Momentum3MDays] - 1.0

	return &FactorSet{
		Security:    security,
		AsOf:        asOf,
		Perf12M:     perf12m,
		Momentum3M:  momentum3m,
		Stability4W: e.stability(trimmed, asOf),
		Liquidity:   e.liquidity(trimmed),
	}, nil
}

// benchmarkReturn computes the benchmark total return over [begin, end]
// using whatever benchmark bars exist in the window; a benchmark with fewer
// than two observations contributes zero rather than failing the factor set.
func benchmarkReturn(benchmark *dataframe.DataFrame, begin, end time.Time) float64 {
	if benchmark == nil {
		return 0.0
	}
	window := benchmark.Trim(begin, end)
	closes := window.Col(string(data.MetricClose))
	if len(closes) < 2 {
		return 0.0
	}
	return closes[len(closes)-1]/closes[0] - 1.0
}

// stability is the inverse of the standard deviation of weekly returns over
// the trailing StabilityWeeks calendar weeks. A degenerate window (flat
// prices, too few weekly observations) is capped at StabilityCap rather than
// producing infinity.
func (e *Engine) stability(series *dataframe.DataFrame, asOf time.Time) float64 {
	// one extra week of closes is needed to produce StabilityWeeks returns
	windowStart := asOf.AddDate(0, 0, -7*(e.StabilityWeeks+1))
	window := series.Trim(windowStart, asOf)

	weeklyCloses := []float64{}
	closes := window.Col(string(data.MetricClose))
	for idx, date := range window.Dates {
		year, week := date.ISOWeek()
		isLastOfWeek := idx == len(window.Dates)-1
		if !isLastOfWeek {
			nextYear, nextWeek := window.Dates[idx+1].ISOWeek()
			isLastOfWeek = year != nextYear || week != nextWeek
		}
		if isLastOfWeek {
			weeklyCloses = append(weeklyCloses, closes[idx])
		}
	}

	weeklyReturns := make([]float64, 0, e.StabilityWeeks)
	for idx := 1; idx < len(weeklyCloses); idx++ {
		weeklyReturns = append(weeklyReturns, weeklyCloses[idx]/weeklyCloses[idx-1]-1.0)
	}
	if len(weeklyReturns) > e.StabilityWeeks {
		weeklyReturns = weeklyReturns[len(weeklyReturns)-e.StabilityWeeks:]
	}

	if len(weeklyReturns) < 2 {
		return e.StabilityCap
	}

	sigma := stat.StdDev(weeklyReturns, nil)
	if sigma <= 0 || math.IsNaN(sigma) {
		return e.StabilityCap
	}

	return math.Min(1.0/sigma, e.StabilityCap)
}

// liquidity is the trailing mean of the traded value (close times volume),
// computed by folding the volume column into the close column and smoothing
// over the liquidity window.
func (e *Engine) liquidity(series *dataframe.DataFrame) float64 {
	volumeAsClose := &dataframe.DataFrame{
		Dates:    series.Dates,
		ColNames: []string{string(data.MetricClose)},
		Vals:     [][]float64{series.Col(string(data.MetricVolume))},
	}

	traded := series.Mul(volumeAsClose).RollingMean(e.LiquidityDays)
	vals := traded.Col(string(data.MetricClose))
	if len(vals) == 0 {
		return 0.0
	}
	return vals[len(vals)-1]
}
