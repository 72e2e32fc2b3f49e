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

package recommend_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/config"
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/marketday"
	"github.com/finemg/fm-api/recommend"
	"github.com/finemg/fm-api/targets"
)

// addBars fills the provider with bars over real trading days from begin to
// end, with closes produced by priceFn.
func addBars(provider *data.StaticProvider, ticker string, begin, end time.Time, priceFn func(idx int) float64) {
	days := marketday.TradingDays(begin, end)
	bars := make([]*data.Bar, 0, len(days))
	for idx, day := range days {
		bars = append(bars, &data.Bar{Date: day, Close: priceFn(idx), Volume: 100_000})
	}
	provider.Bars[ticker] = bars
}

var _ = Describe("Recommender", func() {
	var (
		ctx       context.Context
		settings  *config.Settings
		provider  *data.StaticProvider
		asOf      time.Time
		dataBegin time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		settings = config.Default()

		tz := common.GetTimezone()
		asOf = time.Date(2026, time.March, 6, 0, 0, 0, 0, tz) // a Friday
		dataBegin = asOf.AddDate(0, 0, -560)

		provider = data.NewStaticProvider()
		addBars(provider, "^FCHI", dataBegin, asOf, func(idx int) float64 { return 8000.0 })
	})

	Context("with a flat three-security universe", func() {
		BeforeEach(func() {
			// identical volumes, so the traded value ranks purely by price
			addBars(provider, "AIR.PA", dataBegin, asOf, func(idx int) float64 { return 10.0 })
			addBars(provider, "MC.PA", dataBegin, asOf, func(idx int) float64 { return 20.0 })
			addBars(provider, "BNP.PA", dataBegin, asOf, func(idx int) float64 { return 30.0 })
		})

		It("ranks by liquidity alone when every other factor is degenerate", func() {
			result, err := recommend.New(settings, data.NewManager(provider)).Run(ctx, asOf)
			Expect(err).To(BeNil())
			Expect(result.Recommendations).To(HaveLen(3))

			Expect(result.Recommendations[0].Security.Ticker).To(Equal("BNP.PA"))
			Expect(result.Recommendations[1].Security.Ticker).To(Equal("MC.PA"))
			Expect(result.Recommendations[2].Security.Ticker).To(Equal("AIR.PA"))
			for idx, rec := range result.Recommendations {
				Expect(rec.Rank).To(Equal(idx + 1))
			}
		})

		It("collapses degenerate factors so composites are symmetric around zero", func() {
			result, err := recommend.New(settings, data.NewManager(provider)).Run(ctx, asOf)
			Expect(err).To(BeNil())

			// performance, momentum and stability z-scores are all zero on a
			// flat universe, so the composite is the liquidity term alone
			composites := []float64{
				result.Recommendations[0].Composite,
				result.Recommendations[1].Composite,
				result.Recommendations[2].Composite,
			}
			Expect(composites[1]).To(BeNumerically("~", 0.0, 1e-9))
			Expect(composites[0]).To(BeNumerically("~", -composites[2], 1e-9))
			Expect(composites[0]).To(BeNumerically(">", 0.0))
		})

		It("reports full confidence and fee-adjusted targets on zero volatility", func() {
			result, err := recommend.New(settings, data.NewManager(provider)).Run(ctx, asOf)
			Expect(err).To(BeNil())

			breakeven := targets.Breakeven(settings.FeeRate)
			for _, rec := range result.Recommendations {
				Expect(rec.Volatility).To(Equal(0.0))
				Expect(rec.Confidence).To(Equal(1.0))
				Expect(rec.Breakeven).To(Equal(breakeven))
				want := targets.TargetPrice(rec.Price, settings.FeeRate, settings.NetTargetPct)
				Expect(rec.TargetPrice).To(Equal(want))
			}
		})

		It("resolves a weekend as-of date to the previous trading day", func() {
			saturday := asOf.AddDate(0, 0, 1)
			result, err := recommend.New(settings, data.NewManager(provider)).Run(ctx, saturday)
			Expect(err).To(BeNil())
			Expect(result.AsOf).To(Equal(asOf))
			Expect(result.Recommendations).To(HaveLen(3))
		})
	})

	Context("with a short-history security in the universe", func() {
		BeforeEach(func() {
			addBars(provider, "AIR.PA", dataBegin, asOf, func(idx int) float64 { return 10.0 })
			addBars(provider, "MC.PA", asOf.AddDate(0, 0, -100), asOf, func(idx int) float64 { return 20.0 })
		})

		It("excludes it and records why", func() {
			result, err := recommend.New(settings, data.NewManager(provider)).Run(ctx, asOf)
			Expect(err).To(BeNil())

			Expect(result.Recommendations).To(HaveLen(1))
			Expect(result.Recommendations[0].Security.Ticker).To(Equal("AIR.PA"))

			msgs := make([]string, 0, len(result.Activities))
			for _, activity := range result.Activities {
				msgs = append(msgs, activity.Msg)
			}
			Expect(msgs).To(ContainElement("MC.PA excluded: insufficient history"))
		})
	})

	Context("with no rankable securities", func() {
		It("fails with the sentinel error", func() {
			_, err := recommend.New(settings, data.NewManager(provider)).Run(ctx, asOf)
			Expect(err).To(MatchError(recommend.ErrNoCandidates))
		})
	})
})
