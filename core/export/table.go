// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/framematch"
	"github.com/xuri/excelize/v2"
)

// Frame table columns that don't come from the metadata map
const (
	ColumnFilename  = "filename"
	ColumnFrameType = "frametype"
	ColumnIDName    = "idname"
	ColumnExpTime   = "exptime"
)

// DefaultColumns - frame table columns written when none are requested
var DefaultColumns = []string{ColumnFilename, ColumnFrameType, ColumnIDName, ColumnExpTime, "target", "mjd", "binning", "dispname", "decker", "airmass", "ra", "dec"}

// XLSXSheetName - sheet holding the frame table in exported workbooks
const XLSXSheetName = "frames"

// cellValue - the value of one column of a row, nil if the row has none
func cellValue(row framematch.FrameRow, column string) interface{} {
	switch column {
	case ColumnFilename:
		return row.Filename
	case ColumnFrameType:
		return row.FrameTypeString()
	case ColumnIDName:
		return row.IDName
	case ColumnExpTime:
		if row.ExpTime == nil {
			return nil
		}
		return *row.ExpTime
	}
	return row.Meta[column]
}

func formatCell(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	}
	return fmt.Sprintf("%v", v)
}

func columnsOrDefault(columns []string) []string {
	if len(columns) <= 0 {
		return DefaultColumns
	}
	return columns
}

// WriteFrameTableCSV - header line of column names, then one line per row
func WriteFrameTableCSV(w io.Writer, table framematch.FrameTable, columns []string) error {
	columns = columnsOrDefault(columns)

	out := csv.NewWriter(w)
	err := out.Write(columns)
	if err != nil {
		return err
	}

	for _, row := range table.Rows {
		line := make([]string, len(columns))
		for c, col := range columns {
			line[c] = formatCell(cellValue(row, col))
		}

		err = out.Write(line)
		if err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

// WriteFrameTableXLSX - a workbook with one sheet holding the table. Numbers are written as
// numeric cells, the header row is bold and frozen.
func WriteFrameTableXLSX(w io.Writer, table framematch.FrameTable, columns []string) error {
	columns = columnsOrDefault(columns)

	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", XLSXSheetName)
	if err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}

	header := make([]interface{}, len(columns))
	for c, col := range columns {
		header[c] = col
	}
	err = f.SetSheetRow(XLSXSheetName, "A1", &header)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	err = f.SetRowStyle(XLSXSheetName, 1, 1, bold)
	if err != nil {
		return err
	}

	err = f.SetPanes(XLSXSheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if err != nil {
		return err
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, len(columns))
		for c, col := range columns {
			v := cellValue(row, col)
			if v == nil {
				v = ""
			}
			cells[c] = v
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(XLSXSheetName, cell, &cells)
		if err != nil {
			return errors.Wrapf(err, "failed to write row for %v", row.Filename)
		}
	}

	return f.Write(w)
}
