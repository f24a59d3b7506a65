// Package grouping buckets dated items by calendar year and month.
//
// The output order is total: groups by (year desc, month desc), items by
// date desc and then key asc. The same set of items therefore produces the
// same collection no matter what order the store listed them in.
package grouping

import (
	"cmp"
	"slices"

	"github.com/FPI-TW/report-sub000/internal/keydate"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

type yearMonth struct {
	year  int
	month int
}

// Group partitions items by the year and month of their date and orders the result.
// Items whose date cannot be split are ignored; the key parser never produces them.
func Group(items []reporttypes.DatedItem) []reporttypes.Group {
	buckets := make(map[yearMonth][]reporttypes.DatedItem)
	for _, item := range items {
		year, month, ok := keydate.YearMonth(item.Date)
		if !ok {
			continue
		}
		ym := yearMonth{year: year, month: month}
		buckets[ym] = append(buckets[ym], item)
	}

	groups := make([]reporttypes.Group, 0, len(buckets))
	for ym, bucket := range buckets {
		slices.SortFunc(bucket, compareItems)
		groups = append(groups, reporttypes.Group{
			Year:  ym.year,
			Month: ym.month,
			Items: bucket,
		})
	}

	slices.SortFunc(groups, func(a, b reporttypes.Group) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Month, a.Month)
	})
	return groups
}

// compareItems orders by date descending. YYYY-MM-DD is fixed width, so string order is date order.
func compareItems(a, b reporttypes.DatedItem) int {
	if c := cmp.Compare(b.Date, a.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Key, b.Key)
}
