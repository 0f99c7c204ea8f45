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
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sim-vault/sv-api/allocation"
	"github.com/sim-vault/sv-api/common"
	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	day        int
	dataset    string
	convention string
	cutoff     float64
	penalty    float64
	seed       int64
)

func init() {
	allocateCmd.Flags().IntVarP(&day, "day", "t", 1, "Trading day offset (1-based) to allocate for")
	allocateCmd.Flags().StringVarP(&dataset, "dataset", "d", "", "Archive dataset carrying market data; blank if the bundle is self-contained")
	allocateCmd.Flags().StringVar(&convention, "fill-price", string(allocation.FillVWAP), "Fill-price convention: random, open, close, high, low, or volume_weighted_average_price")
	allocateCmd.Flags().Float64Var(&cutoff, "cutoff", 0.5, "Buy-probability cutoff below which tickers are penalized")
	allocateCmd.Flags().Float64Var(&penalty, "penalty", -100.0, "Score contribution for tickers below the cutoff")
	allocateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the random fill-price draw; 0 seeds from the clock")

	rootCmd.AddCommand(allocateCmd)
}

// loadInvestor reads the investor bundle from a json file and resolves any
// archive references
func loadInvestor(ctx context.Context, fn string, dataset string) (*model.InvestorContext, error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	bundle := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, err
	}

	if dataset != "" {
		manager := data.NewManager()
		manager.RegisterProvider(data.NewArchiveStore(viper.GetString("archive.path")))
		if err := data.ResolveBundle(ctx, manager, dataset, bundle); err != nil {
			return nil, err
		}
	}

	return model.NewInvestorContext(bundle)
}

var allocateCmd = &cobra.Command{
	Use:        "allocate [flags] InvestorBundleFile",
	Short:      "Compute a one-day share allocation",
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

		result, err := allocation.Shares(ctx, day, investor, cfg)
		if err != nil {
			log.Fatal().Err(err).Int("Day", day).Msg("could not compute allocation")
		}

		fmt.Println(result.Table())
	},
}
