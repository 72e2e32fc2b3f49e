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

package imports_test

import (
	"bytes"
	"io"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/finemg/fm-api/imports"
)

// latin1 encodes a UTF-8 fixture the way Boursorama exports files
func latin1(s string) io.Reader {
	encoded, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(s))
	Expect(err).To(BeNil())
	return bytes.NewReader(encoded)
}

const tradeCSV = `Date opération;Libellé;Code ISIN;Quantité;Cours;Montant brut;Frais;Montant net;Sens;Devise
02/01/2026;ACHAT AIRBUS SE;NL0000235190;10;150,50;1 505,00;1,99;1 506,99;ACHAT;EUR
16/01/2026;VENTE AIRBUS SE;NL0000235190;4;160,00;640,00;1,99;638,01;VENTE;EUR
20/01/2026;ACHAT LVMH;FR0000121014;2;620,25;1 240,50;1,99;1 242,49;ACHAT;EUR
not-a-date;ACHAT BROKEN;FR0000000000;1;10,00;10,00;1,99;11,99;ACHAT;EUR
`

const statementCSV = `Date;Libellé;Montant;Devise
05/01/2026;VIREMENT ÉMIS;-250,00;EUR
12/01/2026;DIVIDENDES CRÉDITÉS;32,40;EUR
`

var _ = Describe("ParseStatement", func() {
	Context("with a trade history export", func() {
		It("parses French numbers, dates and accents", func() {
			records, err := imports.ParseStatement(latin1(tradeCSV))
			Expect(err).To(BeNil())
			// the row with a bad date is skipped
			Expect(records).To(HaveLen(3))

			first := records[0]
			Expect(first.Date).To(Equal(time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)))
			Expect(first.ISIN).To(Equal("NL0000235190"))
			Expect(first.Side).To(Equal(imports.Buy))
			Expect(first.Quantity).To(Equal(10.0))
			Expect(first.Price).To(Equal(150.50))
			Expect(first.GrossAmount).To(Equal(1505.00))
			Expect(first.Fees).To(Equal(1.99))
			Expect(first.Currency).To(Equal("EUR"))

			Expect(records[1].Side).To(Equal(imports.Sell))
			Expect(records[2].Label).To(Equal("ACHAT LVMH"))
		})
	})

	Context("with a plain account statement", func() {
		It("parses dates, labels and signed amounts", func() {
			records, err := imports.ParseStatement(latin1(statementCSV))
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Label).To(Equal("VIREMENT ÉMIS"))
			Expect(records[0].GrossAmount).To(Equal(-250.00))
			Expect(records[1].GrossAmount).To(Equal(32.40))
			Expect(records[0].ISIN).To(BeEmpty())
		})
	})

	Context("with malformed input", func() {
		It("rejects an unknown header", func() {
			_, err := imports.ParseStatement(strings.NewReader("Foo;Bar\n1;2\n"))
			Expect(err).To(MatchError(imports.ErrUnknownFormat))
		})

		It("rejects an empty file", func() {
			_, err := imports.ParseStatement(strings.NewReader(""))
			Expect(err).To(MatchError(imports.ErrEmptyFile))
		})

		It("rejects a header with no rows", func() {
			_, err := imports.ParseStatement(strings.NewReader("Date;Libellé;Montant;Devise\n"))
			Expect(err).To(MatchError(imports.ErrEmptyFile))
		})
	})
})

var _ = Describe("Reconcile", func() {
	It("nets buys against sells and keeps the cost basis", func() {
		records, err := imports.ParseStatement(latin1(tradeCSV))
		Expect(err).To(BeNil())

		holdings := imports.Reconcile(records)
		Expect(holdings).To(HaveLen(2))

		// sorted by ISIN: FR before NL
		Expect(holdings[0].ISIN).To(Equal("FR0000121014"))
		Expect(holdings[0].QuantityHeld).To(Equal(2.0))
		Expect(holdings[0].AvgBuyPrice).To(BeNumerically("~", 620.25, 1e-9))

		airbus := holdings[1]
		Expect(airbus.ISIN).To(Equal("NL0000235190"))
		Expect(airbus.QuantityHeld).To(Equal(6.0))
		// average buy price ignores the partial sale
		Expect(airbus.AvgBuyPrice).To(BeNumerically("~", 150.50, 1e-9))
		Expect(airbus.TotalInvested).To(BeNumerically("~", 903.0, 1e-9))
	})

	It("drops fully sold positions", func() {
		records := []*imports.TransactionRecord{
			{ISIN: "FR0000121014", Side: imports.Buy, Quantity: 5, GrossAmount: 500},
			{ISIN: "FR0000121014", Side: imports.Sell, Quantity: 5, GrossAmount: 550},
		}
		Expect(imports.Reconcile(records)).To(BeEmpty())
	})

	It("ignores records without an ISIN", func() {
		records := []*imports.TransactionRecord{
			{Label: "VIREMENT", GrossAmount: -100},
		}
		Expect(imports.Reconcile(records)).To(BeEmpty())
	})
})
