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

// Package marketday implements the Euronext Paris trading calendar. All
// window arithmetic in the scoring and backtesting pipeline counts trading
// days from this calendar, never calendar days.
package marketday

import (
	"time"

	"github.com/finemg/fm-api/common"
)

// IsTradingDay returns true when the market is open on t (a weekday that is
// not a market holiday).
func IsTradingDay(t time.Time) bool {
	d := common.MidnightInTz(t)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !IsMarketHoliday(d)
}

// TradingDays returns all trading days in [begin, end], ordered ascending and
// normalized to midnight Paris time.
func TradingDays(begin, end time.Time) []time.Time {
	begin = common.MidnightInTz(begin)
	end = common.MidnightInTz(end)

	days := make([]time.Time, 0, 260)
	for d := begin; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// NextTradingDay returns the first trading day strictly after t.
func NextTradingDay(t time.Time) time.Time {
	d := common.MidnightInTz(t).AddDate(0, 0, 1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PrevTradingDay returns the last trading day strictly before t.
func PrevTradingDay(t time.Time) time.Time {
	d := common.MidnightInTz(t).AddDate(0, 0, -1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// IsLastTradingDayOfWeek returns true when no later trading day falls in the
// same ISO week as t.
func IsLastTradingDayOfWeek(t time.Time) bool {
	if !IsTradingDay(t) {
		return false
	}
	year, week := common.MidnightInTz(t).ISOWeek()
	nextYear, nextWeek := NextTradingDay(t).ISOWeek()
	return year != nextYear || week != nextWeek
}

// RebalanceDates returns every intervalth trading day in [begin, end],
// starting with the first trading day on or after begin. interval is a count
// of trading days; callers validate interval > 0 at configuration-load time.
func RebalanceDates(begin, end time.Time, interval int) []time.Time {
	all := TradingDays(begin, end)
	dates := make([]time.Time, 0, len(all)/interval+1)
	for idx := 0; idx < len(all); idx += interval {
		dates = append(dates, all[idx])
	}
	return dates
}
