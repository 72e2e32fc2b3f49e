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

package portfolio

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// Performance holds the outputs of a single simulation run: the equity
// curve and the closed-trade log. All statistics derive deterministically
// from these two sequences.
type Performance struct {
	EquityCurve []*EquityPoint `json:"equityCurve"`
	Trades      []*Position    `json:"trades"`
}

// TotalReturn is the total portfolio return over the run
func (perf *Performance) TotalReturn() float64 {
	if len(perf.EquityCurve) < 2 {
		return 0.0
	}
	first := perf.EquityCurve[0].TotalEquity
	last := perf.EquityCurve[len(perf.EquityCurve)-1].TotalEquity
	if first == 0 {
		return math.NaN()
	}
	return last/first - 1.0
}

// MaxDrawDown computes the deepest peak-to-trough loss of the equity curve,
// returned as a negative fraction (or 0 when the curve never declines).
func (perf *Performance) MaxDrawDown() float64 {
	if len(perf.EquityCurve) == 0 {
		return 0.0
	}

	peak := perf.EquityCurve[0].TotalEquity
	maxLoss := 0.0
	for _, point := range perf.EquityCurve {
		peak = math.Max(peak, point.TotalEquity)
		if peak > 0 {
			loss := point.TotalEquity/peak - 1.0
			maxLoss = math.Min(maxLoss, loss)
		}
	}

	return maxLoss
}

// WinRate is the fraction of closed trades with positive net P&L
func (perf *Performance) WinRate() float64 {
	if len(perf.Trades) == 0 {
		return 0.0
	}

	wins := 0
	for _, trade := range perf.Trades {
		if trade.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(perf.Trades))
}

func (perf *Performance) tradePnLs() []float64 {
	pnls := make([]float64, len(perf.Trades))
	for idx, trade := range perf.Trades {
		pnls[idx] = trade.PnL
	}
	return pnls
}

// Summary bundles the headline statistics of a run
type Summary struct {
	TotalReturn  float64 `json:"totalReturn"`
	MaxDrawDown  float64 `json:"maxDrawDown"`
	WinRate      float64 `json:"winRate"`
	NumTrades    int     `json:"numTrades"`
	BestTradePnL float64 `json:"bestTradePnl"`
	WorstTrade   float64 `json:"worstTradePnl"`
	AvgTradePnL  float64 `json:"avgTradePnl"`
	TotalFees    float64 `json:"totalFees"`
}

// Summarize computes the summary statistics from the equity curve and trade
// log.
func (perf *Performance) Summarize() *Summary {
	summary := &Summary{
		TotalReturn: perf.TotalReturn(),
		MaxDrawDown: perf.MaxDrawDown(),
		WinRate:     perf.WinRate(),
		NumTrades:   len(perf.Trades),
	}

	if len(perf.Trades) > 0 {
		pnls := perf.tradePnLs()
		best := pnls[0]
		worst := pnls[0]
		for _, pnl := range pnls {
			best = math.Max(best, pnl)
			worst = math.Min(worst, pnl)
		}
		summary.BestTradePnL = best
		summary.WorstTrade = worst
		summary.AvgTradePnL = stat.Mean(pnls, nil)
	}

	for _, trade := range perf.Trades {
		summary.TotalFees += trade.FeesPaid
	}

	return summary
}

// Table renders the summary as an ASCII table for CLI output
func (summary *Summary) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)

	table.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", summary.TotalReturn*100)})
	table.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", summary.MaxDrawDown*100)})
	table.Append([]string{"Win Rate", fmt.Sprintf("%.1f%%", summary.WinRate*100)})
	table.Append([]string{"Trades", fmt.Sprintf("%d", summary.NumTrades)})
	table.Append([]string{"Best Trade", fmt.Sprintf("%.2f", summary.BestTradePnL)})
	table.Append([]string{"Worst Trade", fmt.Sprintf("%.2f", summary.WorstTrade)})
	table.Append([]string{"Avg Trade", fmt.Sprintf("%.2f", summary.AvgTradePnL)})
	table.Append([]string{"Total Fees", fmt.Sprintf("%.2f", summary.TotalFees)})

	table.Render()
	return s.String()
}
