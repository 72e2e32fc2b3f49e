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

package scorer_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/indicators"
	"github.com/finemg/fm-api/scorer"
)

func factorSet(ticker string, perf, mom, stab, liq float64) *indicators.FactorSet {
	return &indicators.FactorSet{
		Security:    &data.Security{Ticker: ticker},
		Perf12M:     perf,
		Momentum3M:  mom,
		Stability4W: stab,
		Liquidity:   liq,
	}
}

var _ = Describe("Weights", func() {
	It("accepts the defaults", func() {
		Expect(scorer.DefaultWeights().Validate()).To(Succeed())
	})

	DescribeTable("when validating",
		func(w scorer.Weights, valid bool) {
			err := w.Validate()
			if valid {
				Expect(err).To(BeNil())
			} else {
				Expect(err).To(MatchError(scorer.ErrInvalidWeights))
			}
		},
		Entry("equal weights", scorer.Weights{Perf12M: 0.25, Momentum3M: 0.25, Stability: 0.25, Liquidity: 0.25}, true),
		Entry("sum within epsilon", scorer.Weights{Perf12M: 0.25 + 5e-10, Momentum3M: 0.25, Stability: 0.25, Liquidity: 0.25}, true),
		Entry("sum too large", scorer.Weights{Perf12M: 0.5, Momentum3M: 0.5, Stability: 0.5, Liquidity: 0.5}, false),
		Entry("sum too small", scorer.Weights{Perf12M: 0.1, Momentum3M: 0.1, Stability: 0.1, Liquidity: 0.1}, false),
		Entry("negative weight", scorer.Weights{Perf12M: 1.2, Momentum3M: -0.2, Stability: 0.0, Liquidity: 0.0}, false),
	)
})

var _ = Describe("Rank", func() {
	var asOf time.Time

	BeforeEach(func() {
		asOf = time.Date(2026, time.March, 2, 0, 0, 0, 0, common.GetTimezone())
	})

	Context("with invalid weights", func() {
		It("fails before scoring", func() {
			_, err := scorer.Rank([]*indicators.FactorSet{factorSet("A", 1, 1, 1, 1)}, asOf, 5,
				scorer.Weights{Perf12M: 1, Momentum3M: 1, Stability: 1, Liquidity: 1})
			Expect(err).To(MatchError(scorer.ErrInvalidWeights))
		})
	})

	Context("with an empty universe", func() {
		It("returns an empty slice", func() {
			scores, err := scorer.Rank(nil, asOf, 5, scorer.DefaultWeights())
			Expect(err).To(BeNil())
			Expect(scores).To(BeEmpty())
		})
	})

	Context("with a clear ordering", func() {
		It("ranks the dominant security first", func() {
			sets := []*indicators.FactorSet{
				factorSet("LOW", 0.0, 0.0, 1.0, 1000),
				factorSet("MID", 0.1, 0.05, 2.0, 2000),
				factorSet("TOP", 0.3, 0.15, 3.0, 5000),
			}

			scores, err := scorer.Rank(sets, asOf, 5, scorer.DefaultWeights())
			Expect(err).To(BeNil())
			Expect(scores).To(HaveLen(3))
			Expect(scores[0].Security.Ticker).To(Equal("TOP"))
			Expect(scores[0].Rank).To(Equal(1))
			Expect(scores[2].Security.Ticker).To(Equal("LOW"))
			Expect(scores[2].Rank).To(Equal(3))
			Expect(scores[0].Composite).To(BeNumerically(">", scores[1].Composite))
		})

		It("truncates to the requested size", func() {
			sets := []*indicators.FactorSet{
				factorSet("A", 0.0, 0.0, 1.0, 1000),
				factorSet("B", 0.1, 0.05, 2.0, 2000),
				factorSet("C", 0.3, 0.15, 3.0, 5000),
			}

			scores, err := scorer.Rank(sets, asOf, 2, scorer.DefaultWeights())
			Expect(err).To(BeNil())
			Expect(scores).To(HaveLen(2))
		})
	})

	Context("with identical factor sets", func() {
		It("breaks ties by ticker for a deterministic order", func() {
			sets := []*indicators.FactorSet{
				factorSet("ZZZ.PA", 0.1, 0.1, 1.0, 1000),
				factorSet("AAA.PA", 0.1, 0.1, 1.0, 1000),
				factorSet("MMM.PA", 0.1, 0.1, 1.0, 1000),
			}

			scores, err := scorer.Rank(sets, asOf, 5, scorer.DefaultWeights())
			Expect(err).To(BeNil())
			Expect(scores[0].Security.Ticker).To(Equal("AAA.PA"))
			Expect(scores[1].Security.Ticker).To(Equal("MMM.PA"))
			Expect(scores[2].Security.Ticker).To(Equal("ZZZ.PA"))
		})

		It("produces identical output across repeated runs", func() {
			sets := func() []*indicators.FactorSet {
				return []*indicators.FactorSet{
					factorSet("B.PA", 0.2, 0.1, 2.0, 1500),
					factorSet("A.PA", 0.2, 0.1, 2.0, 1500),
					factorSet("C.PA", 0.4, 0.2, 1.0, 3000),
				}
			}

			first, err := scorer.Rank(sets(), asOf, 5, scorer.DefaultWeights())
			Expect(err).To(BeNil())
			for trial := 0; trial < 10; trial++ {
				again, err := scorer.Rank(sets(), asOf, 5, scorer.DefaultWeights())
				Expect(err).To(BeNil())
				for idx := range first {
					Expect(again[idx].Security.Ticker).To(Equal(first[idx].Security.Ticker))
					Expect(again[idx].Composite).To(Equal(first[idx].Composite))
				}
			}
		})
	})

	Context("with a degenerate cross-section", func() {
		It("scores a single candidate at zero", func() {
			scores, err := scorer.Rank([]*indicators.FactorSet{factorSet("ONLY", 0.5, 0.2, 3.0, 9000)}, asOf, 5, scorer.DefaultWeights())
			Expect(err).To(BeNil())
			Expect(scores).To(HaveLen(1))
			Expect(scores[0].Composite).To(Equal(0.0))
			Expect(scores[0].Rank).To(Equal(1))
		})
	})
})
