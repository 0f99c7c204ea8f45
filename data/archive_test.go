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

package data_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sim-vault/sv-api/data"
	"github.com/sim-vault/sv-api/dataframe"
)

func priceTable(base float64, rows int) *dataframe.DataFrame {
	df := dataframe.New("Open", "High", "Low", "Close", "VWAP")
	for idx := 0; idx < rows; idx++ {
		date := time.Date(2021, time.January, idx+1, 0, 0, 0, 0, time.UTC)
		Expect(df.InsertRow(date, base, base+1, base-1, base+.5, base+.25)).To(Succeed())
	}

	return df
}

var _ = Describe("ParseMood", func() {
	DescribeTable("recognized moods", func(s string, expected data.Mood) {
		mood, err := data.ParseMood(s)
		Expect(err).To(BeNil())
		Expect(mood).To(Equal(expected))
	},
		Entry("optimistic", "optimistic", data.MoodOptimistic),
		Entry("neutral", "neutral", data.MoodNeutral),
		Entry("pessimistic", "pessimistic", data.MoodPessimistic),
		Entry("mixed case", "Optimistic", data.MoodOptimistic),
	)

	It("rejects unrecognized moods", func() {
		_, err := data.ParseMood("confused")
		Expect(err).To(MatchError(data.ErrUnknownMood))
		Expect(err.Error()).To(ContainSubstring("confused"))
	})
})

var _ = Describe("History", func() {
	Describe("Validate", func() {
		It("accepts complete tables with positive prices", func() {
			history := data.History{
				"VFINX": priceTable(100, 5),
				"PRIDX": priceTable(50, 5),
			}
			Expect(history.Validate()).To(Succeed())
		})

		It("rejects empty tables", func() {
			history := data.History{
				"VFINX": dataframe.New("Open", "High", "Low", "Close", "VWAP"),
			}
			err := history.Validate()
			Expect(err).To(MatchError(data.ErrMalformedArchive))
			Expect(err.Error()).To(ContainSubstring("VFINX"))
		})

		It("rejects tables missing a metric column", func() {
			df := dataframe.New("Open", "Close")
			Expect(df.InsertRow(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 10, 11)).To(Succeed())
			history := data.History{"VFINX": df}
			Expect(history.Validate()).To(MatchError(data.ErrMalformedArchive))
		})

		It("rejects non-positive prices", func() {
			df := priceTable(100, 3)
			df.Vals[3][1] = 0
			history := data.History{"VFINX": df}
			err := history.Validate()
			Expect(err).To(MatchError(data.ErrMalformedArchive))
			Expect(err.Error()).To(ContainSubstring("Close"))
		})
	})
})

var _ = Describe("ArchiveStore", func() {
	var (
		ctx   context.Context
		dir   string
		store *data.ArchiveStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		store = data.NewArchiveStore(dir)
	})

	It("round-trips a price history through an archive", func() {
		history := data.History{
			"VFINX": priceTable(100, 4),
			"PRIDX": priceTable(50, 4),
		}
		Expect(data.WriteArchive(dir, "growth", history, nil, nil)).To(Succeed())

		loaded, err := store.GetHistory(ctx, "growth")
		Expect(err).To(BeNil())
		Expect(loaded).To(HaveLen(2))
		Expect(loaded["VFINX"].Len()).To(Equal(4))

		row, err := loaded["VFINX"].Row(2)
		Expect(err).To(BeNil())
		Expect(row["High"]).To(Equal(101.0))
		Expect(row["VWAP"]).To(Equal(100.25))
	})

	It("round-trips a preference table", func() {
		history := data.History{"VFINX": priceTable(100, 2)}
		prefs := &data.PreferenceTable{
			BuyProb: map[string]float64{"VFINX": 0.8},
			Lambda:  1.5,
		}
		Expect(data.WriteArchive(dir, "optimistic", history, prefs, nil)).To(Succeed())

		loaded, err := store.GetPreferences(ctx, data.MoodOptimistic)
		Expect(err).To(BeNil())
		Expect(loaded.Lambda).To(Equal(1.5))
		Expect(loaded.BuyProb).To(HaveKeyWithValue("VFINX", 0.8))
	})

	It("round-trips bandit results", func() {
		history := data.History{"VFINX": priceTable(100, 2)}
		bandit := map[string]data.ArmStats{
			"VFINX": {Successes: 7, Failures: 3},
		}
		Expect(data.WriteArchive(dir, "bandit-results", history, nil, bandit)).To(Succeed())

		loaded, err := store.GetBanditResults(ctx, "bandit-results")
		Expect(err).To(BeNil())
		Expect(loaded["VFINX"].Successes).To(Equal(7))
		Expect(loaded["VFINX"].Failures).To(Equal(3))
	})

	It("returns an error for datasets that do not exist", func() {
		_, err := store.GetHistory(ctx, "no-such-dataset")
		Expect(err).To(MatchError(data.ErrUnknownDataset))
	})

	It("rejects preference tables with probabilities outside [0, 1]", func() {
		history := data.History{"VFINX": priceTable(100, 2)}
		prefs := &data.PreferenceTable{
			BuyProb: map[string]float64{"VFINX": 1.2},
			Lambda:  1.0,
		}
		Expect(data.WriteArchive(dir, "pessimistic", history, prefs, nil)).To(Succeed())

		_, err := store.GetPreferences(ctx, data.MoodPessimistic)
		Expect(err).To(MatchError(data.ErrMalformedArchive))
	})

	It("rejects datasets missing the requested section", func() {
		history := data.History{"VFINX": priceTable(100, 2)}
		Expect(data.WriteArchive(dir, "no-extras", history, nil, nil)).To(Succeed())

		_, err := store.GetBanditResults(ctx, "no-extras")
		Expect(err).To(MatchError(data.ErrMalformedArchive))
	})
})

var _ = Describe("Manager", func() {
	It("dispatches requests to registered providers", func() {
		dir := GinkgoT().TempDir()
		history := data.History{"VFINX": priceTable(100, 3)}
		Expect(data.WriteArchive(dir, "managed", history, nil, nil)).To(Succeed())

		manager := data.NewManager()
		manager.RegisterProvider(data.NewArchiveStore(dir))

		loaded, err := manager.History(context.Background(), "managed")
		Expect(err).To(BeNil())
		Expect(loaded["VFINX"].Len()).To(Equal(3))
	})

	It("returns ErrUnknownDataset when no provider has the dataset", func() {
		manager := data.NewManager()
		_, err := manager.History(context.Background(), "ghost")
		Expect(err).To(MatchError(data.ErrUnknownDataset))
	})
})
