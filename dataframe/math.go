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

package dataframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PctChange computes the percent change of every column relative to the
// previous row and returns a new dataframe. The first row is NaN.
func (df *DataFrame) PctChange() *DataFrame {
	df2 := df.Copy()
	for colIdx := range df.Vals {
		for rowIdx := len(df.Vals[colIdx]) - 1; rowIdx > 0; rowIdx-- {
			prev := df.Vals[colIdx][rowIdx-1]
			df2.Vals[colIdx][rowIdx] = df.Vals[colIdx][rowIdx]/prev - 1.0
		}
		if len(df2.Vals[colIdx]) > 0 {
			df2.Vals[colIdx][0] = math.NaN()
		}
	}
	return df2
}

// Mul multiplies all columns in dataframe df by the corresponding column in
// dataframe other and returns a new dataframe. Columns with no counterpart in
// other are left unchanged.
func (df *DataFrame) Mul(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Mul(df.Vals[idx], other.Vals[otherIdx])
		}
	}
	return df
}

// RollingMean computes the trailing mean over a lookback window for every
// column and returns a new dataframe. Rows inside the warm-up period are NaN.
func (df *DataFrame) RollingMean(lookback int) *DataFrame {
	df2 := df.Copy()

	if lookback <= 0 || lookback > df.Len() {
		for colIdx := range df2.Vals {
			for rowIdx := range df2.Vals[colIdx] {
				df2.Vals[colIdx][rowIdx] = math.NaN()
			}
		}
		return df2
	}

	for colIdx := range df.Vals {
		for rowIdx := range df.Vals[colIdx] {
			if rowIdx < lookback-1 {
				df2.Vals[colIdx][rowIdx] = math.NaN()
				continue
			}
			window := df.Vals[colIdx][rowIdx-lookback+1 : rowIdx+1]
			df2.Vals[colIdx][rowIdx] = stat.Mean(window, nil)
		}
	}

	return df2
}
