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

// Package targets derives a fee-adjusted price target and a volatility-based
// confidence score per candidate. Confidence is a relative ranking aid, not
// a probability.
package targets

import (
	"errors"
	"math"
	"time"

	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/dataframe"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoRecentPrice = errors.New("no positive close price available at as-of date")
)

// Estimate is the price target and confidence for one candidate
type Estimate struct {
	Security    *data.Security `json:"security"`
	AsOf        time.Time      `json:"asOf"`
	EntryPrice  float64        `json:"entryPrice"`
	TargetPrice float64        `json:"targetPrice"`
	Confidence  float64        `json:"confidence"`
	Volatility  float64        `json:"volatility"`
}

// Estimator derives price targets and confidence scores
type Estimator struct {
	// FeeRate is the proportional fee charged on each leg of a trade.
	FeeRate float64

	// NetTargetPct is the net return the target must deliver once fees on
	// both legs are deducted; it may be negative.
	NetTargetPct float64

	// VolatilityDays is the trailing window of daily returns for confidence.
	VolatilityDays int

	// SensitivityK controls how quickly confidence decays with volatility.
	SensitivityK float64
}

// NewEstimator creates an estimator with the given fee and target settings
func NewEstimator(feeRate, netTargetPct float64, volatilityDays int, sensitivityK float64) *Estimator {
	return &Estimator{
		FeeRate:        feeRate,
		NetTargetPct:   netTargetPct,
		VolatilityDays: volatilityDays,
		SensitivityK:   sensitivityK,
	}
}

// TargetPrice solves the symmetric-fee equation
//
//	target × (1 - fee) / (entry × (1 + fee)) - 1 = netTargetPct
//
// for the target, so selling at the target yields exactly netTargetPct once
// fees are deducted on both legs.
func TargetPrice(entryPrice, feeRate, netTargetPct float64) float64 {
	return entryPrice * (1.0 + netTargetPct) * (1.0 + feeRate) / (1.0 - feeRate)
}

// Breakeven returns the minimum gross return required to cover symmetric
// fees.
func Breakeven(feeRate float64) float64 {
	return (1.0+feeRate)/(1.0-feeRate) - 1.0
}

// Confidence maps trailing volatility into [0, 1] via the monotonic
// decreasing transform 1 / (1 + k × volatility); lower volatility yields
// higher confidence.
func Confidence(volatility, sensitivityK float64) float64 {
	if math.IsNaN(volatility) || volatility < 0 {
		return 0.0
	}
	return 1.0 / (1.0 + sensitivityK*volatility)
}

// Estimate computes the target price and confidence for a security as of the
// given date. The most recent close at or before asOf is the entry price; if
// none exists the estimate is not computable and the candidate is omitted by
// the caller.
func (est *Estimator) Estimate(security *data.Security, series *dataframe.DataFrame, asOf time.Time) (*Estimate, error) {
	trimmed := series.Trim(time.Time{}, asOf)
	closes := trimmed.Col(string(data.MetricClose))
	if len(closes) == 0 || closes[len(closes)-1] <= 0 {
		return nil, ErrNoRecentPrice
	}
	entry := closes[len(closes)-1]

	vol := trailingVolatility(closes, est.VolatilityDays)

	return &Estimate{
		Security:    security,
		AsOf:        asOf,
		EntryPrice:  entry,
		TargetPrice: TargetPrice(entry, est.FeeRate, est.NetTargetPct),
		Confidence:  Confidence(vol, est.SensitivityK),
		Volatility:  vol,
	}, nil
}

// trailingVolatility is the sample standard deviation of daily returns over
// the trailing window. A window with fewer than two returns is degenerate
// and reports zero volatility (maximum confidence) rather than NaN.
func trailingVolatility(closes []float64, window int) float64 {
	if len(closes) < 2 {
		return 0.0
	}

	start := len(closes) - window - 1
	if start < 0 {
		start = 0
	}

	returns := make([]float64, 0, window)
	for idx := start + 1; idx < len(closes); idx++ {
		returns = append(returns, closes[idx]/closes[idx-1]-1.0)
	}
	if len(returns) < 2 {
		return 0.0
	}

	sigma := stat.StdDev(returns, nil)
	if math.IsNaN(sigma) {
		return 0.0
	}
	return sigma
}
