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

// Package imports reads Boursorama account exports. The bank ships
// semicolon-separated latin-1 CSVs with comma decimals and day-first
// dates; the trade history format is detected by its header row.
package imports

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	ErrUnknownFormat = errors.New("unrecognized statement format")
	ErrEmptyFile     = errors.New("statement contains no rows")
)

type Side string

const (
	Buy  Side = "ACHAT"
	Sell Side = "VENTE"
)

// TransactionRecord is one row of a Boursorama trade history export. For
// plain account statements only Date, Label, GrossAmount and Currency are
// populated.
type TransactionRecord struct {
	Date        time.Time `json:"date"`
	Label       string    `json:"label"`
	ISIN        string    `json:"isin,omitempty"`
	Side        Side      `json:"side,omitempty"`
	Quantity    float64   `json:"quantity,omitempty"`
	Price       float64   `json:"price,omitempty"`
	GrossAmount float64   `json:"grossAmount"`
	Fees        float64   `json:"fees,omitempty"`
	NetAmount   float64   `json:"netAmount,omitempty"`
	Currency    string    `json:"currency"`
}

// ParseStatement reads a Boursorama CSV export. Both the PEA trade history
// ("Date opération" header) and the plain account statement ("Date" header)
// are supported; rows with an unparseable date are skipped with a warning
// rather than failing the whole import.
func ParseStatement(r io.Reader) ([]*TransactionRecord, error) {
	decoded := transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	reader := csv.NewReader(decoded)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, err
	}

	colIdx := make(map[string]int, len(header))
	for idx, name := range header {
		colIdx[strings.TrimSpace(name)] = idx
	}

	_, isTrades := colIdx["Date opération"]
	_, isStatement := colIdx["Date"]
	if !isTrades && !isStatement {
		return nil, ErrUnknownFormat
	}

	records := make([]*TransactionRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var record *TransactionRecord
		if isTrades {
			record = parseTradeRow(row, colIdx)
		} else {
			record = parseStatementRow(row, colIdx)
		}
		if record != nil {
			records = append(records, record)
		}
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return records, nil
}

func field(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTradeRow(row []string, colIdx map[string]int) *TransactionRecord {
	date, err := parseFrenchDate(field(row, colIdx, "Date opération"))
	if err != nil {
		log.Warn().Err(err).Strs("Row", row).Msg("skipping row with unparseable date")
		return nil
	}

	return &TransactionRecord{
		Date:        date,
		Label:       field(row, colIdx, "Libellé"),
		ISIN:        field(row, colIdx, "Code ISIN"),
		Side:        Side(strings.ToUpper(field(row, colIdx, "Sens"))),
		Quantity:    parseFrenchNumber(field(row, colIdx, "Quantité")),
		Price:       parseFrenchNumber(field(row, colIdx, "Cours")),
		GrossAmount: parseFrenchNumber(field(row, colIdx, "Montant brut")),
		Fees:        parseFrenchNumber(field(row, colIdx, "Frais")),
		NetAmount:   parseFrenchNumber(field(row, colIdx, "Montant net")),
		Currency:    field(row, colIdx, "Devise"),
	}
}

func parseStatementRow(row []string, colIdx map[string]int) *TransactionRecord {
	date, err := parseFrenchDate(field(row, colIdx, "Date"))
	if err != nil {
		log.Warn().Err(err).Strs("Row", row).Msg("skipping row with unparseable date")
		return nil
	}

	return &TransactionRecord{
		Date:        date,
		Label:       field(row, colIdx, "Libellé"),
		GrossAmount: parseFrenchNumber(field(row, colIdx, "Montant")),
		Currency:    field(row, colIdx, "Devise"),
	}
}

// parseFrenchDate accepts day-first dates with either slash or dash
// separators, as found in Boursorama exports.
func parseFrenchDate(s string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02-01-2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unparseable date: " + s)
}

// parseFrenchNumber converts "1 234,56" style numbers; an empty or
// malformed value parses as zero.
func parseFrenchNumber(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}
