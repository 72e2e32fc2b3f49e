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

package scorer

import (
	"errors"
	"math"
)

var (
	ErrInvalidWeights = errors.New("scoring weights must sum to 1.0")
)

// weightEpsilon is the tolerance on the weight sum; downstream comparisons
// assume a normalized scale, so anything outside 1.0 ± epsilon is rejected.
const weightEpsilon = 1e-9

// Weights assigns the relative importance of each factor in the composite
// score.
type Weights struct {
	Perf12M    float64 `json:"perf12m" mapstructure:"perf12m"`
	Momentum3M float64 `json:"mom3m" mapstructure:"mom3m"`
	Stability  float64 `json:"stability" mapstructure:"stability"`
	Liquidity  float64 `json:"liquidity" mapstructure:"liquidity"`
}

// DefaultWeights returns the standard factor weighting.
func DefaultWeights() Weights {
	return Weights{
		Perf12M:    0.35,
		Momentum3M: 0.30,
		Stability:  0.20,
		Liquidity:  0.15,
	}
}

// Validate checks that each weight is non-negative and that the weights sum
// to 1.0 within tolerance.
func (w Weights) Validate() error {
	if w.Perf12M < 0 || w.Momentum3M < 0 || w.Stability < 0 || w.Liquidity < 0 {
		return ErrInvalidWeights
	}
	sum := w.Perf12M + w.Momentum3M + w.Stability + w.Liquidity
	if math.Abs(sum-1.0) > weightEpsilon {
		return ErrInvalidWeights
	}
	return nil
}
