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

package dataframe_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sim-vault/sv-api/dataframe"
)

var _ = Describe("DataFrame", func() {
	var df *dataframe.DataFrame

	BeforeEach(func() {
		df = dataframe.New("Open", "Close")
		for idx := 0; idx < 3; idx++ {
			date := time.Date(2021, time.March, idx+1, 0, 0, 0, 0, time.UTC)
			Expect(df.InsertRow(date, float64(10+idx), float64(20+idx))).To(Succeed())
		}
	})

	Describe("shape", func() {
		It("reports row and column counts", func() {
			Expect(df.Len()).To(Equal(3))
			Expect(df.ColCount()).To(Equal(2))
		})

		It("finds columns by name", func() {
			Expect(df.ColIndex("Close")).To(Equal(1))
			Expect(df.ColIndex("Volume")).To(Equal(-1))
		})

		It("reports start and end dates", func() {
			Expect(df.Start()).To(Equal(time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)))
			Expect(df.End()).To(Equal(time.Date(2021, time.March, 3, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("Row", func() {
		It("returns the values of a 1-based row offset", func() {
			row, err := df.Row(2)
			Expect(err).To(BeNil())
			Expect(row).To(HaveKeyWithValue("Open", 11.0))
			Expect(row).To(HaveKeyWithValue("Close", 21.0))
		})

		It("rejects offsets outside [1, Len()]", func() {
			_, err := df.Row(0)
			Expect(err).To(MatchError(dataframe.ErrRowOutOfRange))

			_, err = df.Row(4)
			Expect(err).To(MatchError(dataframe.ErrRowOutOfRange))
		})
	})

	Describe("Value", func() {
		It("returns a single cell", func() {
			v, err := df.Value("Close", 3)
			Expect(err).To(BeNil())
			Expect(v).To(Equal(22.0))
		})

		It("rejects unknown columns", func() {
			_, err := df.Value("Volume", 1)
			Expect(err).To(MatchError(dataframe.ErrColDoesNotExist))
		})

		It("rejects out-of-range offsets", func() {
			_, err := df.Value("Close", 9)
			Expect(err).To(MatchError(dataframe.ErrRowOutOfRange))
		})
	})

	Describe("Insert", func() {
		It("appends a column of matching length", func() {
			Expect(df.Insert("VWAP", []float64{1, 2, 3})).To(Succeed())
			Expect(df.ColCount()).To(Equal(3))
			Expect(df.Col("VWAP")).To(Equal([]float64{1, 2, 3}))
		})

		It("rejects columns of the wrong length", func() {
			Expect(df.Insert("VWAP", []float64{1})).To(MatchError(dataframe.ErrColLengthUnequal))
		})
	})

	Describe("InsertRow", func() {
		It("rejects rows with the wrong number of values", func() {
			date := time.Date(2021, time.March, 4, 0, 0, 0, 0, time.UTC)
			Expect(df.InsertRow(date, 1.0)).To(MatchError(dataframe.ErrColLengthUnequal))
		})
	})

	Describe("Copy", func() {
		It("creates an independent deep copy", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = -1

			v, err := df.Value("Open", 1)
			Expect(err).To(BeNil())
			Expect(v).To(Equal(10.0))
		})
	})

	Describe("Last", func() {
		It("keeps only the final row", func() {
			last := df.Last()
			Expect(last.Len()).To(Equal(1))
			Expect(last.Dates[0]).To(Equal(df.End()))
			Expect(last.Vals[1][0]).To(Equal(22.0))
		})
	})

	Describe("Min and Max", func() {
		It("selects the row-wise extremes", func() {
			Expect(df.Min()).To(Equal([]float64{10, 11, 12}))
			Expect(df.Max()).To(Equal([]float64{20, 21, 22}))
		})
	})

	Describe("Table", func() {
		It("renders a placeholder when the frame has no rows", func() {
			Expect(dataframe.New("Open").Table()).To(Equal("<NO DATA>"))
		})

		It("renders a placeholder when the frame has no columns", func() {
			empty := dataframe.New()
			Expect(empty.InsertRow(time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC))).To(Succeed())
			Expect(empty.Table()).To(Equal("<NO DATA>"))
		})
	})
})
