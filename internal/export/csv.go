// Package export renders a generated report as CSV. It is a pure formatting
// step over the report response shape; no storage access happens here.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
)

var csvHeader = []string{
	"id", "transactionType", "assetTagId", "assetDescription", "category",
	"subCategory", "transactionDate", "actionBy", "details", "location",
	"site", "department", "assetCost",
}

// WriteCSV streams report.Transactions to w with a fixed header row. The
// common envelope fields cover every row; variant payloads stay in the JSON
// surface.
func WriteCSV(w io.Writer, report *models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, tx := range report.Transactions {
		record := []string{
			tx.ID,
			string(tx.TransactionType),
			tx.AssetTagID,
			tx.AssetDescription,
			tx.Category,
			strOrEmpty(tx.SubCategory),
			tx.TransactionDate.UTC().Format(time.RFC3339),
			strOrEmpty(tx.ActionBy),
			strOrEmpty(tx.Details),
			tx.Location,
			tx.Site,
			strOrEmpty(tx.Department),
			costOrEmpty(tx.AssetCost),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func costOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
