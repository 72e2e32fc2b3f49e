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

// Package scorer combines per-ticker factor sets into a composite momentum
// score and ranks the eligible universe. Raw factors are cross-sectionally
// normalized (z-score across the universe on that date) before weighting so
// percentage returns and euro volumes contribute comparably; normalization is
// recomputed per date and never cached across dates.
package scorer

import (
	"math"
	"sort"
	"time"

	"github.com/finemg/fm-api/data"
	"github.com/finemg/fm-api/indicators"

	"gonum.org/v1/gonum/stat"
)

// Score is the composite score and rank of one security on one date
type Score struct {
	Security  *data.Security        `json:"security"`
	AsOf      time.Time             `json:"asOf"`
	Composite float64               `json:"composite"`
	Rank      int                   `json:"rank"`
	Factors   *indicators.FactorSet `json:"factors"`
}

// Rank combines factor sets into composite scores and returns the top-n,
// sorted descending. Ties resolve by higher perf12m, then ticker, so
// repeated calls with identical input produce identical output. Only
// securities with a complete factor set participate; the caller excludes
// incomplete ones before calling.
func Rank(factorSets []*indicators.FactorSet, asOf time.Time, topN int, weights Weights) ([]*Score, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	n := len(factorSets)
	if n == 0 {
		return []*Score{}, nil
	}

	perf := make([]float64, n)
	mom := make([]float64, n)
	stab := make([]float64, n)
	liq := make([]float64, n)
	for idx, fs := range factorSets {
		perf[idx] = fs.Perf12M
		mom[idx] = fs.Momentum3M
		stab[idx] = fs.Stability4W
		liq[idx] = fs.Liquidity
	}

	zScore(perf)
	zScore(mom)
	zScore(stab)
	zScore(liq)

	scores := make([]*Score, n)
	for idx, fs := range factorSets {
		scores[idx] = &Score{
			Security: fs.Security,
			AsOf:     asOf,
			Factors:  fs,
			Composite: weights.Perf12M*perf[idx] +
				weights.Momentum3M*mom[idx] +
				weights.Stability*stab[idx] +
				weights.Liquidity*liq[idx],
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Composite != scores[j].Composite {
			return scores[i].Composite > scores[j].Composite
		}
		if scores[i].Factors.Perf12M != scores[j].Factors.Perf12M {
			return scores[i].Factors.Perf12M > scores[j].Factors.Perf12M
		}
		return scores[i].Security.Ticker < scores[j].Security.Ticker
	})

	for idx, score := range scores {
		score.Rank = idx + 1
	}

	if topN < len(scores) {
		scores = scores[:topN]
	}

	return scores, nil
}

// zScore normalizes vals in place across the cross-section. A degenerate
// cross-section (zero variance) normalizes to all zeros so the factor drops
// out of the composite instead of producing NaNs.
func zScore(vals []float64) {
	mean, sigma := stat.MeanStdDev(vals, nil)
	if len(vals) < 2 || math.IsNaN(sigma) || sigma <= 0 {
		for idx := range vals {
			vals[idx] = 0.0
		}
		return
	}
	for idx := range vals {
		vals[idx] = (vals[idx] - mean) / sigma
	}
}
