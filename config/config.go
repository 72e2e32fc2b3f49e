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

// Package config holds the validated strategy settings. Settings are decoded
// from viper once and validated at load time; hot paths receive the struct
// and never re-validate.
package config

import (
	"errors"
	"fmt"

	"github.com/finemg/fm-api/scorer"

	"github.com/spf13/viper"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Settings is the complete strategy configuration
type Settings struct {
	// FeeRate is the proportional brokerage fee applied on both the buy and
	// the sell leg of every trade.
	FeeRate float64 `json:"feeRate" mapstructure:"fee_rate"`

	// NetTargetPct is the net return the price target must deliver after
	// symmetric fees; it may be negative.
	NetTargetPct float64 `json:"netTargetPct" mapstructure:"net_target_pct"`

	// Weights used by the composite scorer.
	Weights scorer.Weights `json:"scoringWeights" mapstructure:"scoring_weights"`

	// TopN is the number of candidates kept by the scorer each cycle.
	TopN int `json:"topN" mapstructure:"top_n"`

	// RebalanceDays is the rebalancing cadence in trading days; 10 trading
	// days is the bi-weekly default.
	RebalanceDays int `json:"rebalanceDays" mapstructure:"rebalance_days"`

	// KellyMultiplier scales the raw Kelly fraction (0.5 = half-Kelly).
	KellyMultiplier float64 `json:"kellyMultiplier" mapstructure:"kelly_multiplier"`

	// MaxPositionPct hard-caps the fraction of equity in any one position.
	MaxPositionPct float64 `json:"maxPositionPct" mapstructure:"max_position_pct"`

	// ConfidenceK controls how quickly confidence decays with volatility.
	ConfidenceK float64 `json:"confidenceSensitivityK" mapstructure:"confidence_sensitivity_k"`

	// StopLossPct is the assumed per-trade loss used for the Kelly payoff
	// ratio.
	StopLossPct float64 `json:"stopLossPct" mapstructure:"stop_loss_pct"`

	// StabilityCap bounds the stability factor when the weekly return
	// standard deviation is degenerate (zero).
	StabilityCap float64 `json:"stabilityCap" mapstructure:"stability_cap"`

	// LiquidityDays is the trailing window for the liquidity factor.
	LiquidityDays int `json:"liquidityDays" mapstructure:"liquidity_days"`

	// ConfidenceDays is the trailing window for the confidence volatility.
	ConfidenceDays int `json:"confidenceDays" mapstructure:"confidence_days"`

	// InitialCash is the simulated starting balance for backtests.
	InitialCash float64 `json:"initialCash" mapstructure:"initial_cash"`
}

// Default returns settings with the standard strategy parameters
func Default() *Settings {
	return &Settings{
		FeeRate:         0.005,
		NetTargetPct:    0.03,
		Weights:         scorer.DefaultWeights(),
		TopN:            5,
		RebalanceDays:   10,
		KellyMultiplier: 0.5,
		MaxPositionPct:  0.25,
		ConfidenceK:     25.0,
		StopLossPct:     0.05,
		StabilityCap:    100.0,
		LiquidityDays:   20,
		ConfidenceDays:  20,
		InitialCash:     10_000,
	}
}

// FromViper decodes settings from the strategy.* viper keys, filling any key
// that is not present with its default, and validates the result.
func FromViper() (*Settings, error) {
	settings := Default()
	if sub := viper.Sub("strategy"); sub != nil {
		if err := sub.Unmarshal(settings); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate fails fast on any out-of-range option; nothing downstream
// re-checks these.
func (s *Settings) Validate() error {
	if err := s.Weights.Validate(); err != nil {
		return err
	}
	if s.FeeRate < 0 || s.FeeRate >= 1 {
		return fmt.Errorf("%w: fee_rate must be in [0, 1)", ErrInvalidConfig)
	}
	if s.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be > 0", ErrInvalidConfig)
	}
	if s.RebalanceDays <= 0 {
		return fmt.Errorf("%w: rebalance_days must be > 0", ErrInvalidConfig)
	}
	if s.KellyMultiplier <= 0 || s.KellyMultiplier > 1 {
		return fmt.Errorf("%w: kelly_multiplier must be in (0, 1]", ErrInvalidConfig)
	}
	if s.MaxPositionPct <= 0 || s.MaxPositionPct > 1 {
		return fmt.Errorf("%w: max_position_pct must be in (0, 1]", ErrInvalidConfig)
	}
	if s.ConfidenceK <= 0 {
		return fmt.Errorf("%w: confidence_sensitivity_k must be > 0", ErrInvalidConfig)
	}
	if s.StopLossPct <= 0 {
		return fmt.Errorf("%w: stop_loss_pct must be > 0", ErrInvalidConfig)
	}
	if s.StabilityCap <= 0 {
		return fmt.Errorf("%w: stability_cap must be > 0", ErrInvalidConfig)
	}
	if s.LiquidityDays <= 0 || s.ConfidenceDays <= 0 {
		return fmt.Errorf("%w: factor windows must be > 0", ErrInvalidConfig)
	}
	if s.InitialCash <= 0 {
		return fmt.Errorf("%w: initial_cash must be > 0", ErrInvalidConfig)
	}
	return nil
}
