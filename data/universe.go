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

import "sort"

// peaUniverse is the static list of PEA-eligible securities the recommender
// may consider (CAC 40 plus a selection of SBF 120) and the benchmark index.
// Tickers use Euronext suffixes (.PA = Paris, .AS = Amsterdam, .MI = Milan).
var peaUniverse = []*Security{
	{Ticker: "^FCHI", Name: "CAC 40", Sector: "Index", Benchmark: true},

	{Ticker: "AI.PA", Name: "Air Liquide", Sector: "Materials"},
	{Ticker: "AIR.PA", Name: "Airbus", Sector: "Industrials"},
	{Ticker: "ALO.PA", Name: "Alstom", Sector: "Industrials"},
	{Ticker: "BN.PA", Name: "Danone", Sector: "Consumer Staples"},
	{Ticker: "BNP.PA", Name: "BNP Paribas", Sector: "Financials"},
	{Ticker: "CA.PA", Name: "Carrefour", Sector: "Consumer Staples"},
	{Ticker: "CAP.PA", Name: "Capgemini", Sector: "Technology"},
	{Ticker: "CS.PA", Name: "AXA", Sector: "Financials"},
	{Ticker: "DG.PA", Name: "Vinci", Sector: "Industrials"},
	{Ticker: "DSY.PA", Name: "Dassault Systemes", Sector: "Technology"},
	{Ticker: "EN.PA", Name: "Bouygues", Sector: "Industrials"},
	{Ticker: "ENGI.PA", Name: "Engie", Sector: "Energy"},
	{Ticker: "EL.PA", Name: "EssilorLuxottica", Sector: "Health Care"},
	{Ticker: "ERF.PA", Name: "Eurofins Scientific", Sector: "Health Care"},
	{Ticker: "GLE.PA", Name: "Societe Generale", Sector: "Financials"},
	{Ticker: "HO.PA", Name: "Thales", Sector: "Industrials"},
	{Ticker: "KER.PA", Name: "Kering", Sector: "Consumer Discretionary"},
	{Ticker: "LR.PA", Name: "Legrand", Sector: "Industrials"},
	{Ticker: "MC.PA", Name: "LVMH", Sector: "Consumer Discretionary"},
	{Ticker: "ML.PA", Name: "Michelin", Sector: "Consumer Discretionary"},
	{Ticker: "MT.AS", Name: "ArcelorMittal", Sector: "Materials"},
	{Ticker: "OR.PA", Name: "L'Oreal", Sector: "Consumer Staples"},
	{Ticker: "ORA.PA", Name: "Orange", Sector: "Telecommunications"},
	{Ticker: "PUB.PA", Name: "Publicis", Sector: "Communication"},
	{Ticker: "RI.PA", Name: "Pernod Ricard", Sector: "Consumer Staples"},
	{Ticker: "RMS.PA", Name: "Hermes", Sector: "Consumer Discretionary"},
	{Ticker: "SAF.PA", Name: "Safran", Sector: "Industrials"},
	{Ticker: "SAN.PA", Name: "Sanofi", Sector: "Health Care"},
	{Ticker: "SGO.PA", Name: "Saint-Gobain", Sector: "Materials"},
	{Ticker: "STLAM.MI", Name: "Stellantis", Sector: "Consumer Discretionary"},
	{Ticker: "STM.PA", Name: "STMicroelectronics", Sector: "Technology"},
	{Ticker: "SU.PA", Name: "Schneider Electric", Sector: "Industrials"},
	{Ticker: "TTE.PA", Name: "TotalEnergies", Sector: "Energy"},
	{Ticker: "VIE.PA", Name: "Veolia", Sector: "Utilities"},
	{Ticker: "VIV.PA", Name: "Vivendi", Sector: "Communication"},
	{Ticker: "WLN.PA", Name: "Worldline", Sector: "Technology"},

	{Ticker: "AF.PA", Name: "Air France-KLM", Sector: "Industrials"},
	{Ticker: "AMUN.PA", Name: "Amundi", Sector: "Financials"},
	{Ticker: "COV.PA", Name: "Covivio", Sector: "Real Estate"},
	{Ticker: "GTT.PA", Name: "GTT", Sector: "Industrials"},
	{Ticker: "IPN.PA", Name: "Ipsen", Sector: "Health Care"},
	{Ticker: "NXI.PA", Name: "Nexity", Sector: "Real Estate"},
	{Ticker: "SOPH.PA", Name: "Sopra Steria", Sector: "Technology"},
	{Ticker: "TRMK.PA", Name: "Trigano", Sector: "Consumer Discretionary"},
	{Ticker: "UBI.PA", Name: "Ubisoft", Sector: "Communication"},
}

var securitiesByTicker = func() map[string]*Security {
	m := make(map[string]*Security, len(peaUniverse))
	for _, s := range peaUniverse {
		m[s.Ticker] = s
	}
	return m
}()

// Universe returns all eligible (non-benchmark) securities, sorted by ticker
// so every caller iterates the universe in a deterministic order.
func Universe() []*Security {
	securities := make([]*Security, 0, len(peaUniverse))
	for _, s := range peaUniverse {
		if !s.Benchmark {
			securities = append(securities, s)
		}
	}
	sort.Slice(securities, func(i, j int) bool {
		return securities[i].Ticker < securities[j].Ticker
	})
	return securities
}

// BenchmarkSecurity returns the benchmark index of the universe
func BenchmarkSecurity() (*Security, error) {
	for _, s := range peaUniverse {
		if s.Benchmark {
			return s, nil
		}
	}
	return nil, ErrNoBenchmark
}

// SecurityFromTicker looks up a security using the ticker as the lookup key
func SecurityFromTicker(ticker string) (*Security, error) {
	if s, ok := securitiesByTicker[ticker]; ok {
		return s, nil
	}
	return nil, ErrUnknownSecurity
}
