// Copyright 2022
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

package model

import (
	"github.com/goccy/go-json"
	"github.com/sim-vault/sv-api/data"
)

// InvestorContext aggregates everything the allocation engine needs to know
// about one investor: budget, universe, market data, preference tables, model
// parameters, and risk attitude. The engine treats it as read-only; only the
// trading-day offset varies between calls
type InvestorContext struct {
	Budget           float64                             `json:"budget"`
	Tickers          []string                            `json:"tickers"`
	MarketData       data.History                        `json:"marketData"`
	Preferences      map[data.Mood]*data.PreferenceTable `json:"preferences"`
	MarketFactor     float64                             `json:"marketFactor"`
	RiskFreeRate     float64                             `json:"riskFreeRate"`
	SingleIndex      map[string]data.SingleIndexParams   `json:"singleIndex"`
	PreferenceWeight float64                             `json:"preferenceWeight"`
	Mood             data.Mood                           `json:"mood"`
	MinTradeSize     float64                             `json:"minTradeSize"`
}

// NewInvestorContext builds an InvestorContext from a field-keyed bundle.
// Every recognized field must be present; values are copied verbatim
func NewInvestorContext(args map[string]json.RawMessage) (*InvestorContext, error) {
	investor := &InvestorContext{}

	if err := requireField(args, "budget", &investor.Budget); err != nil {
		return nil, err
	}

	if err := requireField(args, "tickers", &investor.Tickers); err != nil {
		return nil, err
	}

	if err := requireField(args, "marketData", &investor.MarketData); err != nil {
		return nil, err
	}

	if err := requireField(args, "preferences", &investor.Preferences); err != nil {
		return nil, err
	}

	if err := requireField(args, "marketFactor", &investor.MarketFactor); err != nil {
		return nil, err
	}

	if err := requireField(args, "riskFreeRate", &investor.RiskFreeRate); err != nil {
		return nil, err
	}

	if err := requireField(args, "singleIndex", &investor.SingleIndex); err != nil {
		return nil, err
	}

	if err := requireField(args, "preferenceWeight", &investor.PreferenceWeight); err != nil {
		return nil, err
	}

	if err := requireField(args, "mood", &investor.Mood); err != nil {
		return nil, err
	}

	if err := requireField(args, "minTradeSize", &investor.MinTradeSize); err != nil {
		return nil, err
	}

	return investor, nil
}
