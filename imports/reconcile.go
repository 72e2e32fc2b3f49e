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

package imports

import (
	"sort"
)

// Holding is one reconciled open position derived from a trade history
type Holding struct {
	ISIN          string  `json:"isin"`
	Label         string  `json:"label"`
	QuantityHeld  float64 `json:"quantityHeld"`
	AvgBuyPrice   float64 `json:"avgBuyPrice"`
	TotalInvested float64 `json:"totalInvested"`
}

// Reconcile nets buys against sells per ISIN and returns the positions
// still held, sorted by ISIN. The average buy price is gross amount over
// quantity across all buys, so partial sells keep the original cost basis.
func Reconcile(records []*TransactionRecord) []*Holding {
	type tally struct {
		label     string
		qtyBought float64
		grossIn   float64
		qtySold   float64
	}

	byISIN := make(map[string]*tally)
	for _, record := range records {
		if record.ISIN == "" {
			continue
		}

		t, ok := byISIN[record.ISIN]
		if !ok {
			t = &tally{}
			byISIN[record.ISIN] = t
		}

		switch record.Side {
		case Buy:
			t.qtyBought += record.Quantity
			t.grossIn += record.GrossAmount
			t.label = record.Label
		case Sell:
			t.qtySold += record.Quantity
		}
	}

	holdings := make([]*Holding, 0, len(byISIN))
	for isin, t := range byISIN {
		held := t.qtyBought - t.qtySold
		if held <= 0 || t.qtyBought == 0 {
			continue
		}

		avg := t.grossIn / t.qtyBought
		holdings = append(holdings, &Holding{
			ISIN:          isin,
			Label:         t.label,
			QuantityHeld:  held,
			AvgBuyPrice:   avg,
			TotalInvested: held * avg,
		})
	}

	sort.Slice(holdings, func(i, j int) bool { return holdings[i].ISIN < holdings[j].ISIN })
	return holdings
}
