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
	"fmt"
	"sort"
	"time"

	"github.com/finemg/fm-api/common"
	"github.com/finemg/fm-api/dataframe"
	"github.com/finemg/fm-api/marketday"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

const defaultCacheSize = 256

// Manager adapts raw provider bars into normalized per-ticker price series:
// ordered by date, duplicate dates collapsed to the last bar, zero and
// negative closes dropped. Series are cached per (ticker, range) so a
// backtest run touches the provider once per ticker.
type Manager struct {
	provider Provider
	cache    *lru.Cache
}

// NewManager creates a price series manager backed by the given provider
func NewManager(provider Provider) *Manager {
	cache, err := lru.New(defaultCacheSize)
	if err != nil {
		log.Panic().Err(err).Msg("could not create LRU cache")
	}
	return &Manager{
		provider: provider,
		cache:    cache,
	}
}

// PriceSeries returns a dataframe with Close and Volume columns for the
// ticker over [begin, end]. The ticker must be part of the eligible universe.
func (m *Manager) PriceSeries(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}
	if _, err := SecurityFromTicker(ticker); err != nil {
		return nil, err
	}

	begin = common.MidnightInTz(begin)
	end = common.MidnightInTz(end)

	key := fmt.Sprintf("%s:%d:%d", ticker, begin.Unix(), end.Unix())
	if cached, ok := m.cache.Get(key); ok {
		return cached.(*dataframe.DataFrame), nil
	}

	bars, err := m.provider.GetEOD(ctx, ticker, begin, end)
	if err != nil {
		log.Error().Err(err).Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Msg("could not fetch bars from provider")
		return nil, err
	}

	df := normalizeBars(ticker, bars)
	m.cache.Add(key, df)
	return df, nil
}

// normalizeBars converts provider bars into an ordered, deduplicated series
// restricted to Euronext Paris trading days. When a date appears more than
// once the last bar wins. Bars without a positive close are dropped rather
// than interpolated.
func normalizeBars(ticker string, bars []*Bar) *dataframe.DataFrame {
	byDate := make(map[time.Time]*Bar, len(bars))
	for _, bar := range bars {
		date := common.MidnightInTz(bar.Date)
		if bar.Close <= 0 {
			log.Debug().Str("Ticker", ticker).Time("Date", date).Float64("Close", bar.Close).Msg("dropping bar with non-positive close")
			continue
		}
		byDate[date] = bar
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	df := dataframe.New(string(MetricClose), string(MetricVolume))
	for _, date := range dates {
		bar := byDate[date]
		df.InsertRow(date, bar.Close, bar.Volume)
	}

	// some feeds ship bars on exchange holidays; keep the series aligned
	// with the trading calendar the rest of the pipeline walks
	return df.FilterDates(marketday.IsTradingDay)
}
