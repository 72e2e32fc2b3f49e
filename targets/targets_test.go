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

package targets_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/dataframe"
	"github.com/finemg/fm-api/targets"
)

var _ = Describe("TargetPrice", func() {
	It("delivers the net return exactly once both fees are paid", func() {
		for _, fee := range []float64{0.0, 0.001, 0.005, 0.01} {
			for _, net := range []float64{0.03, 0.0, -0.02} {
				entry := 100.0
				target := targets.TargetPrice(entry, fee, net)

				// buy entry shares at (1+fee), sell at target keeping
				// (1-fee); the realized net return must equal net
				realized := target*(1-fee)/(entry*(1+fee)) - 1.0
				Expect(realized).To(BeNumerically("~", net, 1e-12),
					fmt.Sprintf("fee=%f net=%f", fee, net))
			}
		}
	})

	It("is above the entry price for a positive net target", func() {
		Expect(targets.TargetPrice(100, 0.005, 0.03)).To(BeNumerically(">", 100))
	})

	It("scales linearly with the entry price", func() {
		Expect(targets.TargetPrice(200, 0.005, 0.03)).To(BeNumerically("~", 2*targets.TargetPrice(100, 0.005, 0.03), 1e-9))
	})
})

var _ = Describe("Breakeven", func() {
	It("is zero without fees", func() {
		Expect(targets.Breakeven(0)).To(BeNumerically("~", 0, 1e-12))
	})

	It("equals the gross return that cancels both fee legs", func() {
		fee := 0.005
		breakeven := targets.Breakeven(fee)
		// selling at entry*(1+breakeven) returns exactly the buy cost
		Expect(100 * (1 + breakeven) * (1 - fee)).To(BeNumerically("~", 100*(1+fee), 1e-9))
	})
})

var _ = Describe("Confidence", func() {
	It("is maximal at zero volatility", func() {
		Expect(targets.Confidence(0, 25)).To(Equal(1.0))
	})

	It("decays with volatility", func() {
		low := targets.Confidence(0.01, 25)
		high := targets.Confidence(0.05, 25)
		Expect(low).To(BeNumerically(">", high))
		Expect(high).To(BeNumerically(">", 0))
		Expect(low).To(BeNumerically("<", 1))
	})

	It("decays faster with a larger sensitivity", func() {
		Expect(targets.Confidence(0.02, 50)).To(BeNumerically("<", targets.Confidence(0.02, 25)))
	})
})

var _ = Describe("Estimator", func() {
	var (
		estimator *targets.Estimator
		security  *data.Security
		asOf      time.Time
	)

	day := func(n int) time.Time {
		return time.Date(2026, time.March, n, 0, 0, 0, 0, common.GetTimezone())
	}

	BeforeEach(func() {
		estimator = targets.NewEstimator(0.005, 0.03, 20, 25)
		security = &data.Security{Ticker: "AIR.PA"}
		asOf = day(6)
	})

	Context("with a populated series", func() {
		It("uses the last close at or before the as-of date", func() {
			df := dataframe.New(string(data.MetricClose), string(data.MetricVolume))
			df.InsertRow(day(2), 100, 1000)
			df.InsertRow(day(3), 101, 1000)
			df.InsertRow(day(4), 102, 1000)
			df.InsertRow(day(5), 103, 1000)

			estimate, err := estimator.Estimate(security, df, asOf)
			Expect(err).To(BeNil())
			Expect(estimate.EntryPrice).To(Equal(103.0))
			Expect(estimate.TargetPrice).To(BeNumerically("~", targets.TargetPrice(103, 0.005, 0.03), 1e-12))
		})

		It("reports full confidence on a flat series", func() {
			df := dataframe.New(string(data.MetricClose), string(data.MetricVolume))
			for n := 2; n <= 6; n++ {
				df.InsertRow(day(n), 100, 1000)
			}

			estimate, err := estimator.Estimate(security, df, asOf)
			Expect(err).To(BeNil())
			Expect(estimate.Volatility).To(Equal(0.0))
			Expect(estimate.Confidence).To(Equal(1.0))
		})
	})

	Context("with no usable price", func() {
		It("fails when the series is empty", func() {
			df := dataframe.New(string(data.MetricClose), string(data.MetricVolume))
			_, err := estimator.Estimate(security, df, asOf)
			Expect(err).To(MatchError(targets.ErrNoRecentPrice))
		})

		It("fails when every bar is after the as-of date", func() {
			df := dataframe.New(string(data.MetricClose), string(data.MetricVolume))
			df.InsertRow(day(9), 100, 1000)
			df.InsertRow(day(10), 101, 1000)

			_, err := estimator.Estimate(security, df, asOf)
			Expect(err).To(MatchError(targets.ErrNoRecentPrice))
		})
	})
})
