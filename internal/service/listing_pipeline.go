package service

import (
	"math"
	"strings"

	"github.com/noah-isme/matricula-admin/internal/models"
)

// FilterAll disables the status or course filter.
const FilterAll = "all"

const (
	defaultPageSize = 10
	maxStripButtons = 5
)

// FilterCriteria are the listing search inputs. Empty Status/Course behave as
// FilterAll.
type FilterCriteria struct {
	Search string `json:"search" form:"q"`
	Status string `json:"status" form:"estado"`
	Course string `json:"course" form:"curso"`
}

// Normalized trims the inputs and maps empty selectors to FilterAll.
func (c FilterCriteria) Normalized() FilterCriteria {
	c.Search = strings.TrimSpace(c.Search)
	c.Status = strings.TrimSpace(c.Status)
	c.Course = strings.TrimSpace(c.Course)
	if c.Status == "" {
		c.Status = FilterAll
	}
	if c.Course == "" {
		c.Course = FilterAll
	}
	return c
}

// IsZero reports whether the criteria select every record.
func (c FilterCriteria) IsZero() bool {
	n := c.Normalized()
	return n.Search == "" && n.Status == FilterAll && n.Course == FilterAll
}

// Matches reports whether rec satisfies all three predicates.
func (c FilterCriteria) Matches(rec models.Enrollment) bool {
	n := c.Normalized()
	if n.Search != "" {
		term := strings.ToLower(n.Search)
		if !containsFold(rec.Student.FirstNames, term) &&
			!containsFold(rec.Student.LastNames, term) &&
			!containsFold(rec.Student.NationalID, term) &&
			!containsFold(rec.Details.Course, term) {
			return false
		}
	}
	if n.Status != FilterAll && string(rec.Status) != n.Status {
		return false
	}
	if n.Course != FilterAll && rec.Details.Course != n.Course {
		return false
	}
	return true
}

func containsFold(value, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(value), lowerTerm)
}

// FilterRecords returns the records matching criteria, preserving order.
func FilterRecords(records []models.Enrollment, criteria FilterCriteria) []models.Enrollment {
	out := make([]models.Enrollment, 0, len(records))
	for _, rec := range records {
		if criteria.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// TotalPages is ceil(n/pageSize); zero for an empty collection.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the slice for a 1-based page and the total page count. A
// page outside [1, totalPages] yields an empty slice.
func Paginate(records []models.Enrollment, page, pageSize int) ([]models.Enrollment, int) {
	total := TotalPages(len(records), pageSize)
	if page < 1 || page > total {
		return []models.Enrollment{}, total
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], total
}

// Stats summarises a filtered view.
type Stats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Pending        int `json:"pending"`
	Completed      int `json:"completed"`
	Cancelled      int `json:"cancelled"`
	CompletionRate int `json:"completion_rate"`
}

// ComputeStats counts records by status. CompletionRate is the rounded
// percentage of completed records, 0 when there are none.
func ComputeStats(records []models.Enrollment) Stats {
	stats := Stats{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case models.EnrollmentStatusActive:
			stats.Active++
		case models.EnrollmentStatusPending:
			stats.Pending++
		case models.EnrollmentStatusCompleted:
			stats.Completed++
		case models.EnrollmentStatusCancelled:
			stats.Cancelled++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// PageStrip is the numbered page navigation: a window of at most five pages
// around the current one, with jump buttons and ellipses outside it.
type PageStrip struct {
	Pages            []int `json:"pages"`
	Current          int   `json:"current"`
	Total            int   `json:"total"`
	ShowFirst        bool  `json:"show_first"`
	LeadingEllipsis  bool  `json:"leading_ellipsis"`
	ShowLast         bool  `json:"show_last"`
	TrailingEllipsis bool  `json:"trailing_ellipsis"`
}

// BuildPageStrip computes the window for current out of total pages.
func BuildPageStrip(current, total int) PageStrip {
	strip := PageStrip{Current: current, Total: total, Pages: []int{}}
	if total <= 0 {
		return strip
	}
	half := maxStripButtons / 2
	start := max(1, current-half)
	end := min(total, start+maxStripButtons-1)
	start = max(1, end-maxStripButtons+1)

	for i := start; i <= end; i++ {
		strip.Pages = append(strip.Pages, i)
	}
	strip.ShowFirst = start > 1
	strip.LeadingEllipsis = start > 2
	strip.ShowLast = end < total
	strip.TrailingEllipsis = end < total-1
	return strip
}

// ListingView is the render-ready projection of a pipeline.
type ListingView struct {
	Records    []models.Enrollment `json:"records"`
	Pagination models.Pagination   `json:"pagination"`
	FirstItem  int                 `json:"first_item"`
	LastItem   int                 `json:"last_item"`
	Empty      bool                `json:"empty"`
	HasPrev    bool                `json:"has_prev"`
	HasNext    bool                `json:"has_next"`
	Strip      PageStrip           `json:"page_strip"`
	Stats      Stats               `json:"stats"`
	Criteria   FilterCriteria      `json:"criteria"`
	PageSizes  []int               `json:"page_sizes"`
	StoredAll  int                 `json:"stored_total"`
}

// Pipeline owns the full collection, the filtered view derived from it and
// the pagination cursor for one listing session. It has no rendering or
// storage dependencies.
type Pipeline struct {
	full      []models.Enrollment
	filtered  []models.Enrollment
	criteria  FilterCriteria
	page      int
	pageSize  int
	pageSizes []int
}

// NewPipeline starts an unfiltered pipeline on page 1. A pageSize outside
// allowedSizes falls back to the first allowed size.
func NewPipeline(records []models.Enrollment, pageSize int, allowedSizes []int) *Pipeline {
	if len(allowedSizes) == 0 {
		allowedSizes = []int{5, defaultPageSize, 25, 50}
	}
	p := &Pipeline{
		pageSizes: append([]int(nil), allowedSizes...),
		criteria:  FilterCriteria{}.Normalized(),
		page:      1,
	}
	if !p.sizeAllowed(pageSize) {
		pageSize = allowedSizes[0]
		if p.sizeAllowed(defaultPageSize) {
			pageSize = defaultPageSize
		}
	}
	p.pageSize = pageSize
	p.full = cloneRecords(records)
	p.filtered = cloneRecords(p.full)
	return p
}

// Reload replaces the full collection, re-applies the current criteria and
// keeps the page when it is still in range.
func (p *Pipeline) Reload(records []models.Enrollment) {
	p.full = cloneRecords(records)
	p.filtered = FilterRecords(p.full, p.criteria)
	p.clampPage()
}

// ApplyFilter recomputes the filtered view and returns to page 1.
func (p *Pipeline) ApplyFilter(criteria FilterCriteria) []models.Enrollment {
	p.criteria = criteria.Normalized()
	p.filtered = FilterRecords(p.full, p.criteria)
	p.page = 1
	return cloneRecords(p.filtered)
}

// ClearFilter resets the criteria; the filtered view equals the full one.
func (p *Pipeline) ClearFilter() {
	p.criteria = FilterCriteria{}.Normalized()
	p.filtered = cloneRecords(p.full)
	p.page = 1
}

// GoToPage moves to page n. Out of range requests are ignored and report
// false.
func (p *Pipeline) GoToPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.page = n
	return true
}

// NextPage advances one page when possible.
func (p *Pipeline) NextPage() bool { return p.GoToPage(p.page + 1) }

// PrevPage goes back one page when possible.
func (p *Pipeline) PrevPage() bool { return p.GoToPage(p.page - 1) }

// SetPageSize switches to an allowed size and returns to page 1.
func (p *Pipeline) SetPageSize(size int) bool {
	if !p.sizeAllowed(size) {
		return false
	}
	p.pageSize = size
	p.page = 1
	return true
}

// Page returns the current 1-based page.
func (p *Pipeline) Page() int { return p.page }

// PageSize returns the current page size.
func (p *Pipeline) PageSize() int { return p.pageSize }

// TotalPages returns the page count of the filtered view.
func (p *Pipeline) TotalPages() int { return TotalPages(len(p.filtered), p.pageSize) }

// Criteria returns the active criteria.
func (p *Pipeline) Criteria() FilterCriteria { return p.criteria }

// Records returns a copy of the full collection.
func (p *Pipeline) Records() []models.Enrollment { return cloneRecords(p.full) }

// Filtered returns a copy of the filtered view.
func (p *Pipeline) Filtered() []models.Enrollment { return cloneRecords(p.filtered) }

// Stats summarises the filtered view.
func (p *Pipeline) Stats() Stats { return ComputeStats(p.filtered) }

// Find looks a record up in the full collection.
func (p *Pipeline) Find(id string) (models.Enrollment, bool) {
	for _, rec := range p.full {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Enrollment{}, false
}

// Without returns the full collection minus id, leaving the pipeline
// untouched. ok is false when id is absent.
func (p *Pipeline) Without(id string) ([]models.Enrollment, bool) {
	return withoutRecord(p.full, id)
}

// View projects the current state for rendering.
func (p *Pipeline) View() ListingView {
	slice, total := Paginate(p.filtered, p.page, p.pageSize)
	view := ListingView{
		Records: cloneRecords(slice),
		Pagination: models.Pagination{
			Page:       p.page,
			PageSize:   p.pageSize,
			TotalCount: len(p.filtered),
			TotalPages: total,
		},
		Empty:     total == 0,
		HasPrev:   p.page > 1,
		HasNext:   p.page < total,
		Strip:     BuildPageStrip(p.page, total),
		Stats:     p.Stats(),
		Criteria:  p.criteria,
		PageSizes: append([]int(nil), p.pageSizes...),
		StoredAll: len(p.full),
	}
	if len(slice) > 0 {
		view.FirstItem = (p.page-1)*p.pageSize + 1
		view.LastItem = view.FirstItem + len(slice) - 1
	}
	return view
}

func (p *Pipeline) clampPage() {
	total := p.TotalPages()
	switch {
	case total == 0:
		p.page = 1
	case p.page > total:
		p.page = total
	case p.page < 1:
		p.page = 1
	}
}

func (p *Pipeline) sizeAllowed(size int) bool {
	for _, s := range p.pageSizes {
		if s == size {
			return true
		}
	}
	return false
}

func withoutRecord(records []models.Enrollment, id string) ([]models.Enrollment, bool) {
	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cloneRecords(records), false
	}
	out := make([]models.Enrollment, 0, len(records)-1)
	out = append(out, records[:idx]...)
	out = append(out, records[idx+1:]...)
	return out, true
}

func cloneRecords(records []models.Enrollment) []models.Enrollment {
	out := make([]models.Enrollment, len(records))
	copy(out, records)
	return out
}
