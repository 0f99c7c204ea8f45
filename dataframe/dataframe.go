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

package dataframe

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/floats"
)

// New creates an empty dataframe with the requested columns
func New(colNames ...string) *DataFrame {
	return &DataFrame{
		Dates:    []time.Time{},
		ColNames: colNames,
		Vals:     make([][]float64, len(colNames)),
	}
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// ColIndex returns the index of the named column; -1 if the column doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// Copy creates a deep copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Insert adds a new column to the end of the dataframe
func (df *DataFrame) Insert(name string, col []float64) error {
	if len(df.Dates) != len(col) {
		return ErrColLengthUnequal
	}

	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return nil
}

// InsertRow appends a new row to the dataframe; vals must equal the number of
// columns
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) error {
	if len(vals) != len(df.ColNames) {
		return ErrColLengthUnequal
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return nil
}

// Row returns the values of row `t`, where t is a 1-based offset into the
// dataframe. Offsets outside of [1, Len()] return ErrRowOutOfRange
func (df *DataFrame) Row(t int) (map[string]float64, error) {
	if t < 1 || t > df.Len() {
		return nil, fmt.Errorf("%w: %d (have %d rows)", ErrRowOutOfRange, t, df.Len())
	}

	vals := make(map[string]float64, len(df.ColNames))
	for colIdx, colName := range df.ColNames {
		vals[colName] = df.Vals[colIdx][t-1]
	}

	return vals, nil
}

// Value returns the value of the named column at 1-based row offset `t`
func (df *DataFrame) Value(colName string, t int) (float64, error) {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return 0, fmt.Errorf("%w: %s", ErrColDoesNotExist, colName)
	}

	if t < 1 || t > df.Len() {
		return 0, fmt.Errorf("%w: %d (have %d rows)", ErrRowOutOfRange, t, df.Len())
	}

	return df.Vals[colIdx][t-1], nil
}

// Col returns the named column's values; nil if the column doesn't exist
func (df *DataFrame) Col(colName string) []float64 {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil
	}

	return df.Vals[colIdx]
}

// Last returns a new dataframe with only the last row of the current dataframe
func (df *DataFrame) Last() *DataFrame {
	if df.Len() == 0 {
		return df
	}

	lastVals := make([][]float64, len(df.ColNames))
	lastRow := len(df.Dates) - 1
	for idx, col := range df.Vals {
		lastVals[idx] = []float64{col[lastRow]}
	}

	return &DataFrame{
		ColNames: df.ColNames,
		Dates:    []time.Time{df.Dates[lastRow]},
		Vals:     lastVals,
	}
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}

	return df.Dates[0]
}

// End returns the last date of the dataframe
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}

	return df.Dates[len(df.Dates)-1]
}

// Min selects the min value for each row and returns the resulting column
func (df *DataFrame) Min() []float64 {
	minVals := make([]float64, len(df.Dates))
	row := make([]float64, len(df.ColNames))

	for rowIdx := range df.Dates {
		for colIdx := range df.ColNames {
			row[colIdx] = df.Vals[colIdx][rowIdx]
		}
		minVals[rowIdx] = floats.Min(row)
	}

	return minVals
}

// Max selects the max value for each row and returns the resulting column
func (df *DataFrame) Max() []float64 {
	maxVals := make([]float64, len(df.Dates))
	row := make([]float64, len(df.ColNames))

	for rowIdx := range df.Dates {
		for colIdx := range df.ColNames {
			row[colIdx] = df.Vals[colIdx][rowIdx]
		}
		maxVals[rowIdx] = floats.Max(row)
	}

	return maxVals
}

// Table prints an ASCII formatted table to a string
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 || len(df.ColNames) == 0 {
		return "<NO DATA>"
	}

	tableCols := append([]string{"Date"}, df.ColNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	footer[1] = fmt.Sprintf("%d", df.Len())
	table.SetFooter(footer)
	table.SetBorder(false)

	for idx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
