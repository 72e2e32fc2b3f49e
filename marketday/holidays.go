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

package marketday

import (
	"sync"
	"time"

	"github.com/finemg/fm-api/common"
)

var (
	holidayMu    sync.Mutex
	holidayCache = map[int]map[time.Time]bool{}
)

// easterSunday computes the date of Easter Sunday for the given year using
// the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, common.GetTimezone())
}

// holidaysForYear returns the set of Euronext market holidays for a year:
// New Year's Day, Good Friday, Easter Monday, Labour Day, Christmas Day and
// Boxing Day.
func holidaysForYear(year int) map[time.Time]bool {
	holidayMu.Lock()
	defer holidayMu.Unlock()

	if days, ok := holidayCache[year]; ok {
		return days
	}

	tz := common.GetTimezone()
	easter := easterSunday(year)

	days := map[time.Time]bool{
		time.Date(year, time.January, 1, 0, 0, 0, 0, tz):   true,
		easter.AddDate(0, 0, -2):                           true, // Good Friday
		easter.AddDate(0, 0, 1):                            true, // Easter Monday
		time.Date(year, time.May, 1, 0, 0, 0, 0, tz):       true,
		time.Date(year, time.December, 25, 0, 0, 0, 0, tz): true,
		time.Date(year, time.December, 26, 0, 0, 0, 0, tz): true,
	}

	holidayCache[year] = days
	return days
}

// IsMarketHoliday returns true if the specified date is a Euronext market
// holiday.
func IsMarketHoliday(t time.Time) bool {
	d := common.MidnightInTz(t)
	return holidaysForYear(d.Year())[d]
}
