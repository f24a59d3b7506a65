// Package pager serves page-bounded slices of an ordered group collection.
package pager

import "github.com/FPI-TW/report-sub000/reporttypes"

// Paginate returns the groups visible on the requested page.
// Page and groupsPerPage below 1 are clamped to 1; pages past the end are empty.
func Paginate(groups []reporttypes.Group, page, groupsPerPage int) reporttypes.Page {
	page = max(1, page)
	groupsPerPage = max(1, groupsPerPage)
	total := len(groups)

	visible := []reporttypes.Group{}
	// Compare page indexes so huge page numbers cannot overflow the offset.
	if page-1 < pageCount(total, groupsPerPage) {
		offset := (page - 1) * groupsPerPage
		end := min(offset+groupsPerPage, total)
		visible = groups[offset:end]
	}

	return reporttypes.Page{
		Page:          page,
		GroupsPerPage: groupsPerPage,
		HasPrev:       page > 1 && total > 0,
		HasNext:       page < pageCount(total, groupsPerPage),
		Groups:        visible,
		TotalGroups:   total,
	}
}

// pageCount is the number of non-empty pages. page < pageCount is offset+groupsPerPage < total.
func pageCount(total, groupsPerPage int) int {
	if total == 0 {
		return 0
	}
	return (total-1)/groupsPerPage + 1
}
