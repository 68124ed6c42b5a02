package liststate

// PageInfo describes one page of a paginated list for the footer controls.
type PageInfo struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// Paginate slices one page out of data and returns it with the footer
// metadata. Page numbers are 1-based; out-of-range pages clamp to the
// nearest valid page.
func Paginate[T any](data []T, page, pageSize int) ([]T, PageInfo) {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(data)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	if lo > total {
		lo = total
	}

	info := PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if info.HasPrev {
		info.PrevPage = page - 1
	} else {
		info.PrevPage = page
	}
	if info.HasNext {
		info.NextPage = page + 1
	} else {
		info.NextPage = page
	}
	return data[lo:hi], info
}
