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

package marketday_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/marketday"
)

func parisDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, common.GetTimezone())
}

var _ = Describe("Marketday", func() {
	DescribeTable("when checking individual days",
		func(date time.Time, expected bool) {
			Expect(marketday.IsTradingDay(date)).To(Equal(expected))
		},
		Entry("a regular Wednesday", parisDate(2026, time.April, 1), true),
		Entry("a Saturday", parisDate(2026, time.April, 4), false),
		Entry("a Sunday", parisDate(2026, time.April, 5), false),
		Entry("Good Friday", parisDate(2026, time.April, 3), false),
		Entry("Easter Monday", parisDate(2026, time.April, 6), false),
		Entry("New Year's Day", parisDate(2026, time.January, 1), false),
		Entry("Labour Day", parisDate(2026, time.May, 1), false),
		Entry("Christmas Day", parisDate(2026, time.December, 25), false),
		Entry("Bastille Day is a trading day on Euronext", parisDate(2026, time.July, 14), true),
	)

	Context("with the 2026 Easter week", func() {
		It("skips the long weekend", func() {
			days := marketday.TradingDays(parisDate(2026, time.April, 1), parisDate(2026, time.April, 8))
			Expect(days).To(HaveLen(4))
			Expect(days[0]).To(Equal(parisDate(2026, time.April, 1)))
			Expect(days[1]).To(Equal(parisDate(2026, time.April, 2)))
			Expect(days[2]).To(Equal(parisDate(2026, time.April, 7)))
			Expect(days[3]).To(Equal(parisDate(2026, time.April, 8)))
		})

		It("finds the next trading day across the holiday", func() {
			Expect(marketday.NextTradingDay(parisDate(2026, time.April, 2))).To(Equal(parisDate(2026, time.April, 7)))
		})

		It("finds the previous trading day across the holiday", func() {
			Expect(marketday.PrevTradingDay(parisDate(2026, time.April, 7))).To(Equal(parisDate(2026, time.April, 2)))
		})

		It("treats Thursday as the last trading day of the week", func() {
			Expect(marketday.IsLastTradingDayOfWeek(parisDate(2026, time.April, 2))).To(BeTrue())
			Expect(marketday.IsLastTradingDayOfWeek(parisDate(2026, time.April, 1))).To(BeFalse())
		})
	})

	Context("when generating rebalance dates", func() {
		It("starts on the first trading day and spaces by the interval", func() {
			begin := parisDate(2026, time.June, 1)
			end := parisDate(2026, time.July, 31)
			all := marketday.TradingDays(begin, end)
			dates := marketday.RebalanceDates(begin, end, 10)

			Expect(dates[0]).To(Equal(all[0]))
			for idx, date := range dates {
				Expect(date).To(Equal(all[idx*10]))
			}
		})

		It("returns a single date when the interval exceeds the range", func() {
			begin := parisDate(2026, time.June, 1)
			end := parisDate(2026, time.June, 5)
			dates := marketday.RebalanceDates(begin, end, 10)
			Expect(dates).To(HaveLen(1))
		})
	})
})
