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

// Package allocation computes a one-day share allocation for an investor. It
// blends single-index model return expectations with a mood-keyed buy
// probability signal, bounds the blended score with tanh, and splits the
// investor's budget proportionally over the positive-score tickers
package allocation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/common"
	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/model"
	"github.com/sim-vault/sv-api/observability/opentelemetry"
	"go.opentelemetry.io/otel"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrUnknownConvention = errors.New("unrecognized fill-price convention")
)

// Config controls one call of the allocation engine
type Config struct {
	// FillPrice is the convention used to price each day's trades
	FillPrice FillPrice `json:"fillPrice"`

	// Cutoff is the buy-probability threshold below which a ticker is
	// penalized instead of receiving the preference weight
	Cutoff float64 `json:"cutoff"`

	// Penalty replaces the preference weight for tickers below Cutoff
	Penalty float64 `json:"penalty"`

	// Seed seeds the random fill-price draw; 0 seeds from the clock
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the engine defaults: vwap fills, 0.5 cutoff and a
// -100 penalty
func DefaultConfig() Config {
	return Config{
		FillPrice: FillVWAP,
		Cutoff:    0.5,
		Penalty:   -100.0,
	}
}

// Result holds a computed share allocation; the shares, price, and gamma
// vectors align positionally with Tickers
type Result struct {
	ID      uuid.UUID `json:"id"`
	Tickers []string  `json:"tickers"`
	Shares  []float64 `json:"shares"`
	Price   []float64 `json:"price"`
	Gamma   []float64 `json:"gamma"`
	Cash    float64   `json:"cash"`
}

// Shares computes the optimal share allocation for trading day t (a 1-based
// offset into the loaded price history). The investor context is read-only;
// repeated calls vary only t
func Shares(ctx context.Context, t int, investor *model.InvestorContext, cfg Config) (*Result, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "allocation.Shares")
	defer span.End()

	// reject bad configuration before touching any data; an unset fill
	// price takes the vwap default
	if cfg.FillPrice == "" {
		cfg.FillPrice = FillVWAP
	}

	fillPrice, err := ParseFillPrice(string(cfg.FillPrice))
	if err != nil {
		return nil, err
	}

	mood, err := data.ParseMood(string(investor.Mood))
	if err != nil {
		return nil, err
	}

	prefs, ok := investor.Preferences[mood]
	if !ok {
		return nil, fmt.Errorf("%w: no preference table for mood %s", data.ErrMissingPreference, mood)
	}

	gamma, err := scores(investor, prefs, cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	prices, err := fillPrices(t, investor, fillPrice, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	shares := distribute(investor.Budget, gamma, prices, investor.MinTradeSize)

	cash := investor.Budget - floats.Dot(shares, prices)

	log.Debug().Int("Day", t).Str("Mood", string(mood)).Float64("Cash", cash).Msg("computed allocation")

	return &Result{
		ID:      uuid.New(),
		Tickers: investor.Tickers,
		Shares:  shares,
		Price:   prices,
		Gamma:   gamma,
		Cash:    cash,
	}, nil
}

// scores computes the bounded preference score of every ticker in universe
// order. The raw score blends the single-index expected return with the
// ticker's buy probability; tanh bounds it to (-1, 1) so no single ticker can
// dominate the proportional split no matter how extreme the inputs are.
// A negative beta raised to a fractional lambda has no real root, so the raw
// score and gamma are NaN; a NaN score never enters the candidate set and the
// ticker receives zero shares
func scores(investor *model.InvestorContext, prefs *data.PreferenceTable, cfg Config) ([]float64, error) {
	gamma := make([]float64, len(investor.Tickers))

	for idx, ticker := range investor.Tickers {
		params, ok := investor.SingleIndex[ticker]
		if !ok {
			return nil, fmt.Errorf("%w: no single-index parameters for %s", data.ErrNotFound, ticker)
		}

		prob, ok := prefs.BuyProb[ticker]
		if !ok {
			return nil, fmt.Errorf("%w: %s", data.ErrMissingPreference, ticker)
		}

		xi := investor.PreferenceWeight
		if prob <= cfg.Cutoff {
			xi = cfg.Penalty
		}

		betaLambda := math.Pow(params.Beta, prefs.Lambda)
		raw := params.Alpha/betaLambda + params.Beta/betaLambda*investor.MarketFactor + xi*prob
		gamma[idx] = math.Tanh(raw)
	}

	return gamma, nil
}

// fillPrices selects the fill price of every ticker from its price history
// row at day t
func fillPrices(t int, investor *model.InvestorContext, fillPrice FillPrice, rng *rand.Rand) ([]float64, error) {
	prices := make([]float64, len(investor.Tickers))

	for idx, ticker := range investor.Tickers {
		table, ok := investor.MarketData[ticker]
		if !ok {
			return nil, fmt.Errorf("%w: no price history for %s", data.ErrNotFound, ticker)
		}

		row, err := table.Row(t)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d for %s (have %d rows)", data.ErrDayOutOfRange, t, ticker, table.Len())
		}

		price, err := fillPrice.price(row, rng)
		if err != nil {
			return nil, err
		}

		prices[idx] = price
	}

	return prices, nil
}

// distribute splits the budget over the candidate set S = {gamma > 0}.
// Tickers outside S receive zero shares unconditionally
func distribute(budget float64, gamma []float64, prices []float64, minTrade float64) []float64 {
	candidates := make([]int, 0, len(gamma))
	for idx, g := range gamma {
		if g > 0 {
			candidates = append(candidates, idx)
		}
	}

	shares := make([]float64, len(gamma))
	distributeOver(budget, candidates, gamma, prices, minTrade, shares)
	return shares
}

// distributeOver allocates the budget over an explicit candidate set,
// handling both regimes: when every candidate's score is non-negative the
// budget splits strictly proportional to normalized score; otherwise the
// negative-score candidates are forced to the minimum trade size and the
// remaining budget splits proportionally over the rest
func distributeOver(budget float64, candidates []int, gamma []float64, prices []float64, minTrade float64, shares []float64) {
	proportional := make([]int, 0, len(candidates))
	forced := 0.0

	for _, idx := range candidates {
		if gamma[idx] < 0 {
			shares[idx] = minTrade
			forced += minTrade * prices[idx]
		} else {
			proportional = append(proportional, idx)
		}
	}

	if len(proportional) != len(candidates) {
		log.Debug().Int("NumForced", len(candidates)-len(proportional)).Float64("ForcedCost", forced).Msg("mixed regime: forcing minimum trades")
	}

	// forced trades can cost more than the budget; never distribute a
	// negative remainder
	distributable := budget - forced
	if distributable < 0 {
		distributable = 0
	}

	gammaBar := 0.0
	for _, idx := range proportional {
		gammaBar += gamma[idx]
	}

	if gammaBar == 0 {
		return
	}

	for _, idx := range proportional {
		shares[idx] = gamma[idx] / gammaBar * (distributable / prices[idx])
	}
}

// Table prints an ASCII formatted table of the allocation to a string; rows
// are ordered by descending score
func (result *Result) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Ticker", "Shares", "Price", "Gamma"})
	table.SetFooter([]string{"", "", "Cash", fmt.Sprintf("%.2f", result.Cash)})
	table.SetBorder(false)

	ranked := make(common.PairList, len(result.Tickers))
	for idx, ticker := range result.Tickers {
		ranked[idx] = common.Pair{Key: ticker, Value: result.Gamma[idx]}
	}
	sort.Sort(sort.Reverse(ranked))

	position := make(map[string]int, len(result.Tickers))
	for idx, ticker := range result.Tickers {
		position[ticker] = idx
	}

	for _, pair := range ranked {
		idx := position[pair.Key]
		table.Append([]string{
			pair.Key,
			fmt.Sprintf("%.4f", result.Shares[idx]),
			fmt.Sprintf("%.2f", result.Price[idx]),
			fmt.Sprintf("%.4f", result.Gamma[idx]),
		})
	}

	table.Render()
	return s.String()
}
