package models

import (
	"net/url"
	"strconv"
	"time"
)

// Paging defaults. Callers may raise pageSize arbitrarily high to pull the
// whole filtered set in one page (the export path does exactly that).
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	ExportPageSize  = 10000
)

// Filters carries every caller-settable report parameter. Zero values mean
// "not filtered".
type Filters struct {
	TransactionType string
	Category        string
	Location        string
	Site            string
	Department      string
	AssetTag        string
	ActionBy        string
	StartDate       *time.Time
	EndDate         *time.Time
	Page            int
	PageSize        int
}

// ActionsByUsersMode reports whether the caller selected the audit-log replay
// mode instead of the ten-source merge.
func (f Filters) ActionsByUsersMode() bool {
	return f.TransactionType == ActionsByUsersLabel
}

// ParseFilters reads report parameters from query values. Parsing is lenient:
// malformed dates are dropped and malformed paging values fall back to the
// defaults rather than failing the request.
func ParseFilters(values url.Values) Filters {
	f := Filters{
		TransactionType: values.Get("transactionType"),
		Category:        values.Get("category"),
		Location:        values.Get("location"),
		Site:            values.Get("site"),
		Department:      values.Get("department"),
		AssetTag:        values.Get("assetTagId"),
		ActionBy:        values.Get("actionBy"),
		StartDate:       parseDate(values.Get("startDate"), false),
		EndDate:         parseDate(values.Get("endDate"), true),
		Page:            parsePositiveInt(values.Get("page"), DefaultPage),
		PageSize:        parsePositiveInt(values.Get("pageSize"), DefaultPageSize),
	}
	return f
}

// parseDate accepts ISO dates (and full RFC 3339 instants). Both bounds are
// inclusive, so an end date expands to the last instant of that day.
func parseDate(raw string, endOfDay bool) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
