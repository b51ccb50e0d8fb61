package runtable

const DefaultPageSize = 10

var PageSizes = []int{10, 20, 30, 40, 50}

type Page struct {
	Rows       []Row `json:"rows"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int   `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

func (p Page) HasPrev() bool {
	return p.Page > 1
}

func (p Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// NormalizePageSize falls back to the default for sizes the table does not
// offer.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if s == size {
			return size
		}
	}
	return DefaultPageSize
}

// Paginate slices rows for a 1-based page. A page past the end is clamped to
// the last page so a shrinking list never leaves the table empty.
func Paginate(rows []Row, page, pageSize int) Page {
	pageSize = NormalizePageSize(pageSize)
	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	out := make([]Row, end-start)
	copy(out, rows[start:end])
	return Page{
		Rows:       out,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
