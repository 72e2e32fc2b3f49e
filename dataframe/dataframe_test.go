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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/dataframe"
)

func day(n int) time.Time {
	return time.Date(2026, time.March, n, 0, 0, 0, 0, common.GetTimezone())
}

var _ = Describe("DataFrame", func() {
	var df *dataframe.DataFrame

	BeforeEach(func() {
		df = dataframe.New("Close", "Volume")
		df.InsertRow(day(2), 10.0, 1000.0)
		df.InsertRow(day(3), 11.0, 1100.0)
		df.InsertRow(day(4), 12.0, 1200.0)
		df.InsertRow(day(5), 13.0, 1300.0)
		df.InsertRow(day(6), 14.0, 1400.0)
	})

	Context("when accessing columns", func() {
		It("returns the column by name", func() {
			Expect(df.Col("Close")).To(Equal([]float64{10, 11, 12, 13, 14}))
		})

		It("returns nil for an unknown column", func() {
			Expect(df.Col("Open")).To(BeNil())
		})

		It("knows its range", func() {
			Expect(df.Start()).To(Equal(day(2)))
			Expect(df.End()).To(Equal(day(6)))
			Expect(df.Len()).To(Equal(5))
		})
	})

	Context("when trimming", func() {
		It("keeps both endpoints", func() {
			trimmed := df.Trim(day(3), day(5))
			Expect(trimmed.Len()).To(Equal(3))
			Expect(trimmed.Col("Close")).To(Equal([]float64{11, 12, 13}))
		})

		It("snaps to interior dates when the bounds fall between rows", func() {
			trimmed := df.Trim(day(1), day(4))
			Expect(trimmed.Col("Close")).To(Equal([]float64{10, 11, 12}))
		})

		It("returns an empty frame for a disjoint range", func() {
			trimmed := df.Trim(day(10), day(20))
			Expect(trimmed.Len()).To(Equal(0))
		})

		It("returns an empty frame for an inverted range", func() {
			trimmed := df.Trim(day(5), day(3))
			Expect(trimmed.Len()).To(Equal(0))
		})

		It("does not modify the original", func() {
			df.Trim(day(3), day(4))
			Expect(df.Len()).To(Equal(5))
		})
	})

	Context("when looking up values by date", func() {
		It("returns the exact value on a trading day", func() {
			Expect(df.ValueOnOrBefore("Close", day(4))).To(Equal(12.0))
		})

		It("falls back to the prior value on a gap", func() {
			// March 7-8 2026 is a weekend
			Expect(df.ValueOnOrBefore("Close", day(8))).To(Equal(14.0))
		})

		It("returns NaN before the first row", func() {
			Expect(math.IsNaN(df.ValueOnOrBefore("Close", day(1)))).To(BeTrue())
		})
	})

	Context("when dropping values", func() {
		It("removes rows containing NaN in any column", func() {
			df.InsertRow(day(9), math.NaN(), 1500.0)
			df.Drop(math.NaN())
			Expect(df.Len()).To(Equal(5))
			Expect(df.End()).To(Equal(day(6)))
		})
	})

	Context("when computing percent change", func() {
		It("sets the first row to NaN and computes simple returns", func() {
			returns := df.Copy().PctChange()
			closes := returns.Col("Close")
			Expect(math.IsNaN(closes[0])).To(BeTrue())
			Expect(closes[1]).To(BeNumerically("~", 0.1, 1e-12))
		})
	})

	Context("when filtering by date", func() {
		It("keeps only rows matching the predicate", func() {
			evens := df.FilterDates(func(t time.Time) bool { return t.Day()%2 == 0 })
			Expect(evens.Len()).To(Equal(3))
			Expect(evens.Col("Close")).To(Equal([]float64{10, 12, 14}))
		})

		It("does not modify the original", func() {
			df.FilterDates(func(time.Time) bool { return false })
			Expect(df.Len()).To(Equal(5))
		})
	})

	Context("when multiplying frames", func() {
		It("multiplies matching columns and leaves the rest alone", func() {
			other := dataframe.New("Close")
			for _, d := range df.Dates {
				other.InsertRow(d, 2.0)
			}

			product := df.Mul(other)
			Expect(product.Col("Close")).To(Equal([]float64{20, 22, 24, 26, 28}))
			Expect(product.Col("Volume")).To(Equal([]float64{1000, 1100, 1200, 1300, 1400}))
			Expect(df.Col("Close")).To(Equal([]float64{10, 11, 12, 13, 14}))
		})
	})

	Context("when computing a rolling mean", func() {
		It("is NaN during warm-up and a trailing mean after", func() {
			smoothed := df.RollingMean(3)
			closes := smoothed.Col("Close")
			Expect(math.IsNaN(closes[0])).To(BeTrue())
			Expect(math.IsNaN(closes[1])).To(BeTrue())
			Expect(closes[2]).To(BeNumerically("~", 11.0, 1e-12))
			Expect(closes[4]).To(BeNumerically("~", 13.0, 1e-12))
		})

		It("is all NaN when the window exceeds the frame", func() {
			smoothed := df.RollingMean(10)
			for _, val := range smoothed.Col("Close") {
				Expect(math.IsNaN(val)).To(BeTrue())
			}
		})
	})

	Context("when taking the last row", func() {
		It("keeps only the final observation", func() {
			last := df.Last()
			Expect(last.Len()).To(Equal(1))
			Expect(last.Col("Close")).To(Equal([]float64{14}))
		})
	})
})
