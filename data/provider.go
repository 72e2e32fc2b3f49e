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

package data

import (
	"context"
	"sort"
	"time"
)

// Provider retrieves raw OHLCV bars for a ticker over a date range. Bars must
// be sorted by date; a provider may return fewer bars than the range implies
// (holidays, data gaps) and callers must tolerate gaps. A ticker that is
// entirely unknown to the provider fails with ErrDataUnavailable.
type Provider interface {
	GetEOD(ctx context.Context, ticker string, begin, end time.Time) ([]*Bar, error)
}

// StaticProvider serves bars from an in-memory map. It backs offline fixtures
// and the simulator tests.
type StaticProvider struct {
	Bars map[string][]*Bar
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{Bars: make(map[string][]*Bar)}
}

func (sp *StaticProvider) GetEOD(_ context.Context, ticker string, begin, end time.Time) ([]*Bar, error) {
	bars, ok := sp.Bars[ticker]
	if !ok {
		return nil, ErrDataUnavailable
	}

	res := make([]*Bar, 0, len(bars))
	for _, bar := range bars {
		if !bar.Date.Before(begin) && !bar.Date.After(end) {
			res = append(res, bar)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
