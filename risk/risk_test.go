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

package risk_test

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/dataframe"
	"github.com/finemg/fm-api/marketday"
	"github.com/finemg/fm-api/risk"
)

// benchmarkSeries builds a benchmark frame over real trading days ending at
// asOf.
func benchmarkSeries(asOf time.Time, numBars int, priceFn func(idx int) float64) *dataframe.DataFrame {
	days := marketday.TradingDays(asOf.AddDate(-2, 0, 0), asOf)
	days = days[len(days)-numBars:]

	df := dataframe.New(string(data.MetricClose), string(data.MetricVolume))
	for idx, day := range days {
		df.InsertRow(day, priceFn(idx), 1e9)
	}
	return df
}

var _ = Describe("Manager", func() {
	var (
		manager *risk.Manager
		asOf    time.Time
	)

	BeforeEach(func() {
		manager = risk.NewManager(0.5, 0.25, 0.05, 0.03)
		asOf = time.Date(2026, time.March, 2, 0, 0, 0, 0, common.GetTimezone())
	})

	Context("when computing market heat", func() {
		It("reports neutral heat with too little history", func() {
			benchmark := benchmarkSeries(asOf, 10, func(idx int) float64 { return 7000 })
			state := manager.MarketHeat(benchmark, asOf)
			Expect(state.MarketHeat).To(Equal(0.5))
			Expect(state.RSI).To(Equal(50.0))
		})

		It("runs hot in a steady rally at the 52-week high", func() {
			benchmark := benchmarkSeries(asOf, 300, func(idx int) float64 { return 6000 + 10*float64(idx) })
			state := manager.MarketHeat(benchmark, asOf)

			Expect(state.DistFrom52WeekHigh).To(BeNumerically("~", 0, 1e-12))
			Expect(state.RSI).To(BeNumerically(">", 70))
			Expect(state.MarketHeat).To(BeNumerically(">", 0.8))
			Expect(state.Throttle()).To(BeNumerically("<", 0.2))
		})

		It("cools down far below the 52-week high", func() {
			// rally then a one-third drawdown
			benchmark := benchmarkSeries(asOf, 300, func(idx int) float64 {
				if idx < 150 {
					return 6000 + 10*float64(idx)
				}
				return 7500 - 17*float64(idx-150)
			})
			state := manager.MarketHeat(benchmark, asOf)

			Expect(state.DistFrom52WeekHigh).To(BeNumerically(">", 0.3))
			Expect(state.RSI).To(BeNumerically("<", 30))
			Expect(state.MarketHeat).To(BeNumerically("<", 0.3))
		})

		It("never leaves the unit interval", func() {
			rng := rand.New(rand.NewSource(42))
			for trial := 0; trial < 20; trial++ {
				base := 5000 + rng.Float64()*3000
				benchmark := benchmarkSeries(asOf, 300, func(idx int) float64 {
					return base * (1 + 0.02*math.Sin(float64(idx)/7) + 0.01*rng.NormFloat64())
				})
				state := manager.MarketHeat(benchmark, asOf)
				Expect(state.MarketHeat).To(BeNumerically(">=", 0))
				Expect(state.MarketHeat).To(BeNumerically("<=", 1))
			}
		})
	})

	Context("when computing the Kelly fraction", func() {
		It("never exceeds the position cap", func() {
			for conf := 0.0; conf <= 1.0; conf += 0.01 {
				f := manager.Kelly(conf)
				Expect(f).To(BeNumerically(">=", 0))
				Expect(f).To(BeNumerically("<=", 0.25))
			}
		})

		It("grows with confidence", func() {
			Expect(manager.Kelly(1.0)).To(BeNumerically(">=", manager.Kelly(0.0)))
		})

		It("is zero for a non-positive payoff ratio", func() {
			loser := risk.NewManager(0.5, 0.25, 0.05, -0.02)
			Expect(loser.Kelly(1.0)).To(Equal(0.0))
		})

		It("respects a custom win-probability mapping", func() {
			manager.WinProb = func(confidence float64) float64 { return 0.0 }
			Expect(manager.Kelly(1.0)).To(Equal(0.0))
		})
	})

	Context("when sizing positions", func() {
		It("floors to whole shares", func() {
			state := &risk.State{MarketHeat: 0.0}
			sizing := manager.Size(10_000, 333, state, 1.0)
			expected := math.Floor(10_000 * sizing.EquityFraction / 333)
			Expect(float64(sizing.Shares)).To(Equal(expected))
		})

		It("throttles allocation by market heat", func() {
			cold := manager.Size(10_000, 100, &risk.State{MarketHeat: 0.0}, 1.0)
			hot := manager.Size(10_000, 100, &risk.State{MarketHeat: 0.9}, 1.0)
			Expect(hot.EquityFraction).To(BeNumerically("<", cold.EquityFraction))
			Expect(hot.Shares).To(BeNumerically("<=", cold.Shares))
		})

		It("returns zero shares in a fully overheated market", func() {
			sizing := manager.Size(10_000, 100, &risk.State{MarketHeat: 1.0}, 1.0)
			Expect(sizing.Shares).To(Equal(int64(0)))
			Expect(sizing.EquityFraction).To(Equal(0.0))
		})

		It("returns zero shares for unaffordable prices", func() {
			sizing := manager.Size(100, 10_000, &risk.State{MarketHeat: 0.0}, 1.0)
			Expect(sizing.Shares).To(Equal(int64(0)))
		})

		It("never allocates more than the position cap", func() {
			rng := rand.New(rand.NewSource(7))
			for trial := 0; trial < 100; trial++ {
				heat := rng.Float64()
				conf := rng.Float64()
				equity := 1_000 + rng.Float64()*100_000
				price := 1 + rng.Float64()*500

				sizing := manager.Size(equity, price, &risk.State{MarketHeat: heat}, conf)
				Expect(sizing.EquityFraction).To(BeNumerically(">=", 0))
				Expect(sizing.EquityFraction).To(BeNumerically("<=", 0.25))
				Expect(float64(sizing.Shares) * price).To(BeNumerically("<=", equity*0.25+price))
			}
		})
	})

	Context("with the default win-probability mapping", func() {
		It("interpolates between the floor and the ceiling", func() {
			Expect(risk.DefaultWinProb(0)).To(BeNumerically("~", 0.35, 1e-12))
			Expect(risk.DefaultWinProb(1)).To(BeNumerically("~", 0.65, 1e-12))
		})
	})
})
