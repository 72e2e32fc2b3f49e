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

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/config"
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/dataframe"
	"github.com/finemg/fm-api/indicators"
	"github.com/finemg/fm-api/marketday"
	"github.com/finemg/fm-api/portfolio"
	"github.com/finemg/fm-api/risk"
	"github.com/finemg/fm-api/scorer"
	"github.com/finemg/fm-api/targets"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

var ErrNoCandidates = errors.New("no security has enough history to rank")

const lookbackCalendarDays = 550

// Recommendation is one line of advisory output: what to buy, at what
// price, with what target and how much conviction.
type Recommendation struct {
	Security    *data.Security `json:"security"`
	Rank        int            `json:"rank"`
	Composite   float64        `json:"composite"`
	Price       float64        `json:"price"`
	TargetPrice float64        `json:"targetPrice"`
	Breakeven   float64        `json:"breakeven"`
	Confidence  float64        `json:"confidence"`
	Volatility  float64        `json:"volatility"`
}

// RunResult is a full advisory run for one date
type RunResult struct {
	RunID           uuid.UUID             `json:"runId"`
	AsOf            time.Time             `json:"asOf"`
	Recommendations []*Recommendation     `json:"recommendations"`
	Risk            *risk.State           `json:"risk"`
	Activities      []*portfolio.Activity `json:"activities"`
}

// Recommender ranks the investable universe and produces buy candidates
// with price targets, confidence scores and the current market heat.
type Recommender struct {
	settings  *config.Settings
	manager   *data.Manager
	engine    *indicators.Engine
	estimator *targets.Estimator
	risk      *risk.Manager
}

// New wires a recommender from validated settings and a data manager
func New(settings *config.Settings, manager *data.Manager) *Recommender {
	engine := indicators.NewEngine()
	engine.LiquidityDays = settings.LiquidityDays
	engine.StabilityCap = settings.StabilityCap

	return &Recommender{
		settings:  settings,
		manager:   manager,
		engine:    engine,
		estimator: targets.NewEstimator(settings.FeeRate, settings.NetTargetPct, settings.ConfidenceDays, settings.ConfidenceK),
		risk:      risk.NewManager(settings.KellyMultiplier, settings.MaxPositionPct, settings.StopLossPct, settings.NetTargetPct),
	}
}

// Run produces recommendations as of the given date. A date that is not a
// trading day resolves to the last trading day before it, so running on a
// weekend recommends from Friday's close.
func (rec *Recommender) Run(ctx context.Context, asOf time.Time) (*RunResult, error) {
	asOf = common.MidnightInTz(asOf)
	if !marketday.IsTradingDay(asOf) {
		asOf = marketday.PrevTradingDay(asOf)
	}

	result := &RunResult{
		RunID: uuid.New(),
		AsOf:  asOf,
	}

	subLog := log.With().Str("RunID", result.RunID.String()).Time("AsOf", asOf).Logger()
	subLog.Info().Msg("starting recommendation run")

	fetchBegin := asOf.AddDate(0, 0, -lookbackCalendarDays)

	benchmarkSecurity, err := data.BenchmarkSecurity()
	if err != nil {
		return nil, err
	}
	benchmark, err := rec.manager.PriceSeries(ctx, benchmarkSecurity.Ticker, fetchBegin, asOf)
	if err != nil {
		subLog.Error().Err(err).Str("Ticker", benchmarkSecurity.Ticker).Msg("could not load benchmark series")
		return nil, err
	}

	factorSets := make([]*indicators.FactorSet, 0, len(data.Universe()))
	seriesByTicker := make(map[string]*dataframe.DataFrame)
	for _, security := range data.Universe() {
		df, err := rec.manager.PriceSeries(ctx, security.Ticker, fetchBegin, asOf)
		if err != nil {
			subLog.Warn().Err(err).Str("Ticker", security.Ticker).Msg("no price history; excluded")
			result.Activities = append(result.Activities, &portfolio.Activity{
				Date: asOf,
				Msg:  fmt.Sprintf("%s excluded: no price history", security.Ticker),
				Tags: []string{"data"},
			})
			continue
		}

		fs, err := rec.engine.Compute(security, df, benchmark, asOf)
		if err != nil {
			if errors.Is(err, indicators.ErrInsufficientHistory) {
				subLog.Debug().Str("Ticker", security.Ticker).Msg("insufficient history; excluded")
				result.Activities = append(result.Activities, &portfolio.Activity{
					Date: asOf,
					Msg:  fmt.Sprintf("%s excluded: insufficient history", security.Ticker),
					Tags: []string{"data"},
				})
				continue
			}
			subLog.Error().Err(err).Str("Ticker", security.Ticker).Msg("factor computation failed")
			continue
		}

		factorSets = append(factorSets, fs)
		seriesByTicker[security.Ticker] = df
	}

	if len(factorSets) == 0 {
		return nil, ErrNoCandidates
	}

	scores, err := scorer.Rank(factorSets, asOf, rec.settings.TopN, rec.settings.Weights)
	if err != nil {
		return nil, err
	}

	result.Risk = rec.risk.MarketHeat(benchmark, asOf)
	breakeven := targets.Breakeven(rec.settings.FeeRate)

	for _, score := range scores {
		estimate, err := rec.estimator.Estimate(score.Security, seriesByTicker[score.Security.Ticker], asOf)
		if err != nil {
			subLog.Warn().Err(err).Str("Ticker", score.Security.Ticker).Msg("no estimate; skipping candidate")
			continue
		}

		result.Recommendations = append(result.Recommendations, &Recommendation{
			Security:    score.Security,
			Rank:        score.Rank,
			Composite:   score.Composite,
			Price:       estimate.EntryPrice,
			TargetPrice: estimate.TargetPrice,
			Breakeven:   breakeven,
			Confidence:  estimate.Confidence,
			Volatility:  estimate.Volatility,
		})
	}

	subLog.Info().Int("NumRecommendations", len(result.Recommendations)).Float64("MarketHeat", result.Risk.MarketHeat).Msg("recommendation run finished")
	return result, nil
}

// Table renders the recommendations as an ASCII table for CLI output
func (res *RunResult) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Rank", "Ticker", "Name", "Price", "Target", "Confidence"})
	table.SetBorder(false)

	for _, rec := range res.Recommendations {
		table.Append([]string{
			fmt.Sprintf("%d", rec.Rank),
			rec.Security.Ticker,
			rec.Security.Name,
			fmt.Sprintf("%.2f", rec.Price),
			fmt.Sprintf("%.2f", rec.TargetPrice),
			fmt.Sprintf("%.0f%%", rec.Confidence*100),
		})
	}

	table.Render()
	return s.String()
}
