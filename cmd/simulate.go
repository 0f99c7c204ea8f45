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

package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/allocation"
	"github.com/sim-vault/sv-api/backtest"
	"github.com/sim-vault/sv-api/common"
	"github.com/spf13/cobra"
)

var (
	beginDay int
	endDay   int
)

func init() {
	simulateCmd.Flags().IntVar(&beginDay, "begin", 1, "First trading day offset (1-based) of the simulation")
	simulateCmd.Flags().IntVar(&endDay, "end", 1, "Last trading day offset (inclusive) of the simulation")
	simulateCmd.Flags().StringVarP(&dataset, "dataset", "d", "", "Archive dataset carrying market data; blank if the bundle is self-contained")
	simulateCmd.Flags().StringVar(&convention, "fill-price", string(allocation.FillVWAP), "Fill-price convention: random, open, close, high, low, or volume_weighted_average_price")
	simulateCmd.Flags().Float64Var(&cutoff, "cutoff", 0.5, "Buy-probability cutoff below which tickers are penalized")
	simulateCmd.Flags().Float64Var(&penalty, "penalty", -100.0, "Score contribution for tickers below the cutoff")
	simulateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the random fill-price draw; 0 seeds from the clock")

	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:        "simulate [flags] InvestorBundleFile",
	Short:      "Run the allocation engine over a range of trading days",
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"InvestorBundleFile"},
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()

		ctx := context.Background()

		investor, err := loadInvestor(ctx, args[0], dataset)
		if err != nil {
			log.Fatal().Err(err).Str("BundleFile", args[0]).Msg("could not load investor bundle")
		}

		fillPrice, err := allocation.ParseFillPrice(convention)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid fill-price convention")
		}

		cfg := allocation.Config{
			FillPrice: fillPrice,
			Cutoff:    cutoff,
			Penalty:   penalty,
			Seed:      seed,
		}

		bt, err := backtest.Run(ctx, beginDay, endDay, investor, cfg)
		if err != nil {
			log.Fatal().Err(err).Int("Begin", beginDay).Int("End", endDay).Msg("could not run simulation")
		}

		fmt.Println(bt.Table())
		fmt.Printf("Ending Cash: %.2f\n", bt.EndingCash)
	},
}
