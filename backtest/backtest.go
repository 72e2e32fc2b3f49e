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

package backtest

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/rs/zerolog/log"
)

var (
	ErrNoTradingDays = errors.New("no trading days in the requested range")
	ErrBenchmark     = errors.New("benchmark series unavailable")
)

// lookbackCalendarDays is the calendar window prefetched before the run
// start so a full year of trading bars is available on day one.
const lookbackCalendarDays = 550

// Backtest replays the strategy over historical prices: buy the top-ranked
// securities at the start of each cycle, sell when the fee-adjusted target
// is reached or the cycle ends, size with throttled Kelly.
type Backtest struct {
	settings  *config.Settings
	manager   *data.Manager
	engine    *indicators.Engine
	estimator *targets.Estimator
	risk      *risk.Manager
}

// Result is the complete output of one simulation run
type Result struct {
	RunID       uuid.UUID              `json:"runId"`
	Begin       time.Time              `json:"begin"`
	End         time.Time              `json:"end"`
	Performance *portfolio.Performance `json:"performance"`
	Summary     *portfolio.Summary     `json:"summary"`
	RiskStates  []*risk.State          `json:"riskStates"`
	Activities  []*portfolio.Activity  `json:"activities"`
	Aborted     bool                   `json:"aborted"`
}

// New wires a backtest from validated settings and a data manager
func New(settings *config.Settings, manager *data.Manager) *Backtest {
	engine := indicators.NewEngine()
	engine.LiquidityDays = settings.LiquidityDays
	engine.StabilityCap = settings.StabilityCap

	return &Backtest{
		settings:  settings,
		manager:   manager,
		engine:    engine,
		estimator: targets.NewEstimator(settings.FeeRate, settings.NetTargetPct, settings.ConfidenceDays, settings.ConfidenceK),
		risk:      risk.NewManager(settings.KellyMultiplier, settings.MaxPositionPct, settings.StopLossPct, settings.NetTargetPct),
	}
}

// Run simulates the strategy from begin to end. The simulation walks every
// trading day in order: target hits are checked daily, positions rebalance
// on the configured cadence, and whatever is still open on the final day is
// closed at the last close. If the context is cancelled mid-run the partial
// result is returned with Aborted set.
func (bt *Backtest) Run(ctx context.Context, begin, end time.Time) (*Result, error) {
	begin = common.MidnightInTz(begin)
	end = common.MidnightInTz(end)

	tradingDays := marketday.TradingDays(begin, end)
	if len(tradingDays) == 0 {
		return nil, ErrNoTradingDays
	}

	result := &Result{
		RunID: uuid.New(),
		Begin: begin,
		End:   end,
	}

	subLog := log.With().Str("RunID", result.RunID.String()).Time("Begin", begin).Time("End", end).Logger()
	subLog.Info().Int("TradingDays", len(tradingDays)).Msg("starting backtest")

	series, benchmark, err := bt.loadSeries(ctx, begin, end, result)
	if err != nil {
		return nil, err
	}

	rebalance := make(map[time.Time]bool)
	for _, day := range marketday.RebalanceDates(begin, end, bt.settings.RebalanceDays) {
		rebalance[day] = true
	}

	sim := &simulation{
		backtest:  bt,
		series:    series,
		benchmark: benchmark,
		cash:      bt.settings.InitialCash,
		result:    result,
	}

	for idx, day := range tradingDays {
		if ctx.Err() != nil {
			subLog.Warn().Time("Day", day).Msg("backtest cancelled; returning partial result")
			sim.closeAll(day, portfolio.ExitFinal)
			result.Aborted = true
			break
		}

		sim.checkTargets(day)

		if rebalance[day] {
			sim.rebalance(day)
		}

		if idx == len(tradingDays)-1 {
			sim.closeAll(day, portfolio.ExitFinal)
		}

		sim.markToMarket(day)
	}

	result.Performance = &portfolio.Performance{
		EquityCurve: sim.equityCurve,
		Trades:      sim.trades,
	}
	result.Summary = result.Performance.Summarize()

	subLog.Info().Float64("TotalReturn", result.Summary.TotalReturn).Int("NumTrades", result.Summary.NumTrades).Msg("backtest finished")
	return result, nil
}

// loadSeries prefetches price history for the benchmark and every universe
// member. Securities without data are logged and skipped; a missing
// benchmark aborts the run because both scoring and market heat need it.
func (bt *Backtest) loadSeries(ctx context.Context, begin, end time.Time, result *Result) (map[string]*dataframe.DataFrame, *dataframe.DataFrame, error) {
	fetchBegin := begin.AddDate(0, 0, -lookbackCalendarDays)

	benchmarkSecurity, err := data.BenchmarkSecurity()
	if err != nil {
		return nil, nil, err
	}

	benchmark, err := bt.manager.PriceSeries(ctx, benchmarkSecurity.Ticker, fetchBegin, end)
	if err != nil {
		log.Error().Err(err).Str("Ticker", benchmarkSecurity.Ticker).Msg("could not load benchmark series")
		return nil, nil, fmt.Errorf("%w: %s", ErrBenchmark, benchmarkSecurity.Ticker)
	}

	series := make(map[string]*dataframe.DataFrame)
	for _, security := range data.Universe() {
		df, err := bt.manager.PriceSeries(ctx, security.Ticker, fetchBegin, end)
		if err != nil {
			log.Warn().Err(err).Str("Ticker", security.Ticker).Msg("no price history; excluding from run")
			result.Activities = append(result.Activities, &portfolio.Activity{
				Date: begin,
				Msg:  fmt.Sprintf("%s excluded: no price history", security.Ticker),
				Tags: []string{"data"},
			})
			continue
		}
		series[security.Ticker] = df
	}

	if len(series) == 0 {
		return nil, nil, data.ErrDataUnavailable
	}

	return series, benchmark, nil
}

// simulation carries the mutable state of a single run
type simulation struct {
	backtest  *Backtest
	series    map[string]*dataframe.DataFrame
	benchmark *dataframe.DataFrame

	cash        float64
	open        []*portfolio.Position
	trades      []*portfolio.Position
	equityCurve []*portfolio.EquityPoint

	result *Result
}

func (sim *simulation) priceOn(ticker string, day time.Time) float64 {
	df, ok := sim.series[ticker]
	if !ok {
		return 0
	}
	price := df.ValueOnOrBefore(string(data.MetricClose), day)
	if price != price { // NaN
		return 0
	}
	return price
}

// checkTargets closes any open position whose close reached its target. The
// fill is at the target price itself, which is conservative when the close
// gapped above it.
func (sim *simulation) checkTargets(day time.Time) {
	fee := sim.backtest.settings.FeeRate
	remaining := sim.open[:0]

	for _, pos := range sim.open {
		price := sim.priceOn(pos.Security.Ticker, day)
		if price > 0 && price >= pos.TargetPrice {
			proceeds := pos.MarketValue(pos.TargetPrice)
			sellFee := proceeds * fee
			sim.cash += proceeds - sellFee
			pos.Close(day, pos.TargetPrice, sellFee, portfolio.ExitTargetHit)
			sim.trades = append(sim.trades, pos)
			sim.activity(day, fmt.Sprintf("SELL %d %s @ %.2f (target hit)", pos.Shares, pos.Security.Ticker, pos.TargetPrice), "sell", "target")
			continue
		}
		remaining = append(remaining, pos)
	}

	sim.open = remaining
}

// closeAll liquidates every open position at the last known close
func (sim *simulation) closeAll(day time.Time, reason string) {
	fee := sim.backtest.settings.FeeRate

	for _, pos := range sim.open {
		price := sim.priceOn(pos.Security.Ticker, day)
		if price <= 0 {
			price = pos.EntryPrice
		}
		proceeds := pos.MarketValue(price)
		sellFee := proceeds * fee
		sim.cash += proceeds - sellFee
		pos.Close(day, price, sellFee, reason)
		sim.trades = append(sim.trades, pos)
		sim.activity(day, fmt.Sprintf("SELL %d %s @ %.2f (%s)", pos.Shares, pos.Security.Ticker, price, reason), "sell")
	}

	sim.open = sim.open[:0]
}

// rebalance ends the current cycle and opens the next one: close whatever
// the target checks left open, re-rank the universe, and buy the top
// candidates sized by throttled Kelly.
func (sim *simulation) rebalance(day time.Time) {
	settings := sim.backtest.settings

	sim.closeAll(day, portfolio.ExitCycleEnd)

	factorSets := make([]*indicators.FactorSet, 0, len(sim.series))
	for _, security := range data.Universe() {
		df, ok := sim.series[security.Ticker]
		if !ok {
			continue
		}
		fs, err := sim.backtest.engine.Compute(security, df, sim.benchmark, day)
		if err != nil {
			if errors.Is(err, indicators.ErrInsufficientHistory) {
				log.Debug().Str("Ticker", security.Ticker).Time("Day", day).Msg("insufficient history; excluded this cycle")
				sim.activity(day, fmt.Sprintf("%s excluded: insufficient history", security.Ticker), "data")
				continue
			}
			log.Error().Err(err).Str("Ticker", security.Ticker).Time("Day", day).Msg("factor computation failed")
			continue
		}
		factorSets = append(factorSets, fs)
	}

	scores, err := scorer.Rank(factorSets, day, settings.TopN, settings.Weights)
	if err != nil {
		// weights were validated up front; a failure here is a bug
		log.Error().Stack().Err(err).Time("Day", day).Msg("ranking failed")
		return
	}

	state := sim.backtest.risk.MarketHeat(sim.benchmark, day)
	sim.result.RiskStates = append(sim.result.RiskStates, state)
	sim.activity(day, fmt.Sprintf("rebalance: %d candidates, heat %.2f", len(scores), state.MarketHeat), "rebalance")

	equity := sim.cash
	fee := settings.FeeRate

	for _, score := range scores {
		df := sim.series[score.Security.Ticker]
		estimate, err := sim.backtest.estimator.Estimate(score.Security, df, day)
		if err != nil {
			log.Warn().Err(err).Str("Ticker", score.Security.Ticker).Time("Day", day).Msg("no estimate; skipping candidate")
			continue
		}

		sizing := sim.backtest.risk.Size(equity, estimate.EntryPrice, state, estimate.Confidence)
		shares := sizing.Shares

		// never spend more than the remaining cash, fees included
		maxAffordable := int64(sim.cash / (estimate.EntryPrice * (1 + fee)))
		if shares > maxAffordable {
			shares = maxAffordable
		}
		if shares <= 0 {
			continue
		}

		cost := estimate.EntryPrice * float64(shares)
		buyFee := cost * fee
		sim.cash -= cost + buyFee

		pos := portfolio.NewPosition(score.Security, day, estimate.EntryPrice, shares, buyFee)
		pos.TargetPrice = estimate.TargetPrice
		pos.Confidence = estimate.Confidence
		pos.KellyFraction = sizing.KellyFraction
		sim.open = append(sim.open, pos)

		sim.activity(day, fmt.Sprintf("BUY %d %s @ %.2f target %.2f conf %.0f%%", shares, score.Security.Ticker, estimate.EntryPrice, estimate.TargetPrice, estimate.Confidence*100), "buy")
	}
}

func (sim *simulation) markToMarket(day time.Time) {
	marketValue := 0.0
	for _, pos := range sim.open {
		price := sim.priceOn(pos.Security.Ticker, day)
		if price <= 0 {
			price = pos.EntryPrice
		}
		marketValue += pos.MarketValue(price)
	}

	sim.equityCurve = append(sim.equityCurve, &portfolio.EquityPoint{
		Date:        day,
		Cash:        sim.cash,
		MarketValue: marketValue,
		TotalEquity: sim.cash + marketValue,
	})
}

func (sim *simulation) activity(day time.Time, msg string, tags ...string) {
	sim.result.Activities = append(sim.result.Activities, &portfolio.Activity{
		Date: day,
		Msg:  msg,
		Tags: tags,
	})
}
