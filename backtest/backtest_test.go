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

package backtest_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sim-vault/sv-api/allocation"
	"github.com/sim-vault/sv-api/backtest"
	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/dataframe"
	"github.com/sim-vault/sv-api/model"
)

func flatTable(price float64, rows int) *dataframe.DataFrame {
	df := dataframe.New("Open", "High", "Low", "Close", "VWAP")
	for idx := 0; idx < rows; idx++ {
		date := time.Date(2021, time.June, idx+1, 0, 0, 0, 0, time.UTC)
		Expect(df.InsertRow(date, price, price, price, price, price)).To(Succeed())
	}

	return df
}

// testInvestor builds a two-ticker context with constant prices so that per-day
// results are identical and easy to check
func testInvestor(days int) *model.InvestorContext {
	return &model.InvestorContext{
		Budget:  1000,
		Tickers: []string{"VFINX", "PRIDX"},
		MarketData: data.History{
			"VFINX": flatTable(100, days),
			"PRIDX": flatTable(50, days),
		},
		Preferences: map[data.Mood]*data.PreferenceTable{
			data.MoodNeutral: {
				BuyProb: map[string]float64{"VFINX": 0.9, "PRIDX": 0.9},
				Lambda:  1,
			},
		},
		MarketFactor: 0,
		RiskFreeRate: 0.004,
		SingleIndex: map[string]data.SingleIndexParams{
			"VFINX": {Alpha: 1, Beta: 1},
			"PRIDX": {Alpha: 0.5, Beta: 1},
		},
		PreferenceWeight: 0,
		Mood:             data.MoodNeutral,
		MinTradeSize:     1,
	}
}

var _ = Describe("Run", func() {
	var (
		ctx context.Context
		cfg allocation.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = allocation.DefaultConfig()
		cfg.FillPrice = allocation.FillClose
	})

	It("produces one ledger entry per trading day", func() {
		bt, err := backtest.Run(ctx, 2, 5, testInvestor(6), cfg)
		Expect(err).To(BeNil())
		Expect(bt.Begin).To(Equal(2))
		Expect(bt.End).To(Equal(5))
		Expect(bt.Ledger).To(HaveLen(4))

		for idx, day := range bt.Ledger {
			Expect(day.Day).To(Equal(idx + 2))
		}
	})

	It("conserves the budget on every day", func() {
		investor := testInvestor(4)
		bt, err := backtest.Run(ctx, 1, 4, investor, cfg)
		Expect(err).To(BeNil())

		for _, day := range bt.Ledger {
			spent := 0.0
			for idx := range day.Result.Shares {
				spent += day.Result.Shares[idx] * day.Result.Price[idx]
			}
			Expect(spent + day.Result.Cash).To(BeNumerically("~", investor.Budget, 1e-9))
		}
	})

	It("accumulates total spend across the run", func() {
		investor := testInvestor(3)
		bt, err := backtest.Run(ctx, 1, 3, investor, cfg)
		Expect(err).To(BeNil())

		expected := 0.0
		for _, day := range bt.Ledger {
			expected += investor.Budget - day.Result.Cash
		}
		Expect(bt.TotalSpent).To(BeNumerically("~", expected, 1e-9))
	})

	It("rejects an inverted day range", func() {
		_, err := backtest.Run(ctx, 5, 2, testInvestor(6), cfg)
		Expect(err).To(MatchError(backtest.ErrInvalidDayRange))
	})

	It("rejects a range starting before the first trading day", func() {
		_, err := backtest.Run(ctx, 0, 2, testInvestor(6), cfg)
		Expect(err).To(MatchError(backtest.ErrInvalidDayRange))
	})

	It("aborts when a day falls outside the price history", func() {
		_, err := backtest.Run(ctx, 1, 10, testInvestor(3), cfg)
		Expect(err).To(MatchError(data.ErrDayOutOfRange))
		Expect(err.Error()).To(ContainSubstring("day 4"))
	})
})
