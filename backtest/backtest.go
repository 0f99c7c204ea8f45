// Copyright 2022-2023
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

// Package backtest runs the allocation engine over a range of trading days.
// Days within one run execute sequentially; independent runs may execute in
// parallel
package backtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/allocation"
	"github.com/sim-vault/sv-api/model"
)

var (
	ErrInvalidDayRange = errors.New("invalid day range; begin must not exceed end")
)

// DayResult pairs a trading-day offset with the allocation computed for it
type DayResult struct {
	Day    int                `json:"day"`
	Result *allocation.Result `json:"result"`
}

// Backtest holds the per-day ledger and summary figures of one run
type Backtest struct {
	ID         uuid.UUID     `json:"id"`
	Begin      int           `json:"begin"`
	End        int           `json:"end"`
	Ledger     []DayResult   `json:"ledger"`
	TotalSpent float64       `json:"totalSpent"`
	EndingCash float64       `json:"endingCash"`
	Runtime    time.Duration `json:"runtime"`
}

// Run executes the allocation engine for every trading day in [begin, end].
// The investor context is shared read-only across days; any day's failure
// aborts the run
func Run(ctx context.Context, begin int, end int, investor *model.InvestorContext, cfg allocation.Config) (*Backtest, error) {
	if begin < 1 || begin > end {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidDayRange, begin, end)
	}

	start := time.Now()

	bt := &Backtest{
		ID:     uuid.New(),
		Begin:  begin,
		End:    end,
		Ledger: make([]DayResult, 0, end-begin+1),
	}

	for t := begin; t <= end; t++ {
		result, err := allocation.Shares(ctx, t, investor, cfg)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", t, err)
		}

		bt.Ledger = append(bt.Ledger, DayResult{Day: t, Result: result})
		bt.TotalSpent += investor.Budget - result.Cash
		bt.EndingCash = result.Cash
	}

	bt.Runtime = time.Since(start).Round(time.Millisecond)

	log.Info().Int("Begin", begin).Int("End", end).Dur("Runtime", bt.Runtime).Msg("backtest complete")

	return bt, nil
}

// Table prints an ASCII formatted per-day summary to a string
func (bt *Backtest) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Day", "Spent", "Cash"})
	table.SetFooter([]string{"Total Spent", fmt.Sprintf("%.2f", bt.TotalSpent), ""})
	table.SetBorder(false)

	for _, day := range bt.Ledger {
		spent := 0.0
		for idx := range day.Result.Shares {
			spent += day.Result.Shares[idx] * day.Result.Price[idx]
		}
		table.Append([]string{
			fmt.Sprintf("%d", day.Day),
			fmt.Sprintf("%.2f", spent),
			fmt.Sprintf("%.2f", day.Result.Cash),
		})
	}

	table.Render()
	return s.String()
}
