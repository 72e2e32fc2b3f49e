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
	"io"
	"net/http"
	"time"

	"github.com/finemg/fm-api/common"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const eodAPIDateFormat = "2006-01-02"

// EODApi retrieves historical end-of-day quotes over HTTP from an
// EODHD-compatible endpoint.
type EODApi struct {
	apiToken string
	baseURL  string
	client   *http.Client
}

type eodAPIResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// NewEODApi creates an HTTP provider; baseURL defaults to the EODHD public
// API when empty.
func NewEODApi(apiToken, baseURL string) *EODApi {
	if baseURL == "" {
		baseURL = "https://eodhd.com/api"
	}
	return &EODApi{
		apiToken: apiToken,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (api *EODApi) GetEOD(ctx context.Context, ticker string, begin, end time.Time) ([]*Bar, error) {
	url := fmt.Sprintf("%s/eod/%s?from=%s&to=%s&period=d&fmt=json&api_token=%s",
		api.baseURL, ticker, begin.Format(eodAPIDateFormat), end.Format(eodAPIDateFormat), api.apiToken)
	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build eod api request")
		return nil, err
	}

	resp, err := api.client.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("eod api request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrDataUnavailable
	}
	if resp.StatusCode >= 400 {
		subLog.Error().Int("StatusCode", resp.StatusCode).Msg("eod api returned an error status")
		return nil, fmt.Errorf("eod api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read eod api response")
		return nil, err
	}

	quotes := []eodAPIResponse{}
	if err := json.Unmarshal(body, &quotes); err != nil {
		subLog.Error().Err(err).Msg("could not unmarshal eod api response")
		return nil, err
	}

	bars := make([]*Bar, 0, len(quotes))
	for _, quote := range quotes {
		date, err := time.ParseInLocation(eodAPIDateFormat, quote.Date, common.GetTimezone())
		if err != nil {
			subLog.Warn().Err(err).Str("Date", quote.Date).Msg("skipping quote with unparseable date")
			continue
		}
		bars = append(bars, &Bar{
			Date:   date,
			Open:   quote.Open,
			High:   quote.High,
			Low:    quote.Low,
			Close:  quote.Close,
			Volume: quote.Volume,
		})
	}

	return bars, nil
}
