package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/noah-isme/matricula-admin/internal/models"
)

var fixtureCourses = []string{"matematicas", "ciencias", "arte"}

var fixtureStatuses = []models.EnrollmentStatus{
	models.EnrollmentStatusActive,
	models.EnrollmentStatusPending,
	models.EnrollmentStatusCompleted,
	models.EnrollmentStatusCancelled,
}

func makeRecords(n int) []models.Enrollment {
	records := make([]models.Enrollment, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.Enrollment{
			ID:           fmt.Sprintf("rec-%02d", i),
			RegisteredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			Status:       fixtureStatuses[i%len(fixtureStatuses)],
			Student: models.Student{
				FirstNames: fmt.Sprintf("Nombre%d", i),
				LastNames:  fmt.Sprintf("Apellido%d", i),
				NationalID: fmt.Sprintf("%08d", 10000000+i),
				Email:      fmt.Sprintf("alumno%d@example.com", i),
				Phone:      "987654321",
			},
			Details: models.EnrollmentInfo{
				Course:    fixtureCourses[i%len(fixtureCourses)],
				Modality:  "virtual",
				StartDate: "2025-03-01",
			},
		})
	}
	return records
}

func recordsGen() *rapid.Generator[[]models.Enrollment] {
	return rapid.Custom(func(t *rapid.T) []models.Enrollment {
		n := rapid.IntRange(0, 60).Draw(t, "n")
		records := makeRecords(n)
		for i := range records {
			records[i].Status = rapid.SampledFrom(fixtureStatuses).Draw(t, "status")
			records[i].Details.Course = rapid.SampledFrom(fixtureCourses).Draw(t, "course")
		}
		return records
	})
}

func criteriaGen() *rapid.Generator[FilterCriteria] {
	return rapid.Custom(func(t *rapid.T) FilterCriteria {
		return FilterCriteria{
			Search: rapid.SampledFrom([]string{"", "nombre1", "APELLIDO", "1000000", "cien", " arte "}).Draw(t, "search"),
			Status: rapid.SampledFrom([]string{"", FilterAll, "active", "pending", "completed", "cancelled"}).Draw(t, "status"),
			Course: rapid.SampledFrom(append([]string{"", FilterAll}, fixtureCourses...)).Draw(t, "course"),
		}
	})
}

func TestPaginateConcatenationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := recordsGen().Draw(t, "records")
		size := rapid.SampledFrom([]int{5, 10, 25, 50}).Draw(t, "size")
		if len(records) == 0 {
			return
		}

		_, total := Paginate(records, 1, size)
		if total != (len(records)+size-1)/size {
			t.Fatalf("total pages %d for n=%d size=%d", total, len(records), size)
		}
		var joined []models.Enrollment
		for page := 1; page <= total; page++ {
			slice, _ := Paginate(records, page, size)
			if len(slice) == 0 || len(slice) > size {
				t.Fatalf("page %d has %d records", page, len(slice))
			}
			joined = append(joined, slice...)
		}
		if len(joined) != len(records) {
			t.Fatalf("joined %d records, want %d", len(joined), len(records))
		}
		for i := range records {
			if joined[i].ID != records[i].ID {
				t.Fatalf("position %d: got %s want %s", i, joined[i].ID, records[i].ID)
			}
		}
	})
}

func TestApplyFilterIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := recordsGen().Draw(t, "records")
		criteria := criteriaGen().Draw(t, "criteria")
		p := NewPipeline(records, 10, nil)

		first := p.ApplyFilter(criteria)
		second := p.ApplyFilter(criteria)
		if len(first) != len(second) {
			t.Fatalf("filter not idempotent: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Fatalf("position %d differs", i)
			}
			if !criteria.Matches(first[i]) {
				t.Fatalf("record %s does not match criteria", first[i].ID)
			}
		}
		if p.Page() != 1 {
			t.Fatalf("page %d after filter", p.Page())
		}
	})
}

func TestClearFilterResetsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := recordsGen().Draw(t, "records")
		p := NewPipeline(records, 5, nil)
		p.ApplyFilter(criteriaGen().Draw(t, "criteria"))
		p.GoToPage(rapid.IntRange(0, 5).Draw(t, "page"))

		p.ClearFilter()
		if p.Page() != 1 {
			t.Fatalf("page %d after clear", p.Page())
		}
		if len(p.Filtered()) != len(p.Records()) {
			t.Fatalf("filtered %d, full %d", len(p.Filtered()), len(p.Records()))
		}
		if !p.Criteria().IsZero() {
			t.Fatalf("criteria not reset: %+v", p.Criteria())
		}
	})
}

func TestFilterCriteriaMatches(t *testing.T) {
	rec := makeRecords(2)[1]
	rec.Student.FirstNames = "María José"
	rec.Details.Course = "ciencias"
	rec.Status = models.EnrollmentStatusActive

	cases := []struct {
		name     string
		criteria FilterCriteria
		want     bool
	}{
		{"empty", FilterCriteria{}, true},
		{"name case insensitive", FilterCriteria{Search: "maría"}, true},
		{"dni substring", FilterCriteria{Search: "000001"}, true},
		{"course key", FilterCriteria{Search: "CIEN"}, true},
		{"email not searched", FilterCriteria{Search: "example.com"}, false},
		{"status match", FilterCriteria{Status: "active"}, true},
		{"status mismatch", FilterCriteria{Status: "pending"}, false},
		{"course all", FilterCriteria{Course: FilterAll}, true},
		{"course mismatch", FilterCriteria{Course: "matematicas"}, false},
		{"all three", FilterCriteria{Search: "josé", Status: "active", Course: "ciencias"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.criteria.Matches(rec))
		})
	}
}

func TestPipelineGoToPageBounds(t *testing.T) {
	p := NewPipeline(makeRecords(23), 10, nil)
	require.Equal(t, 3, p.TotalPages())

	assert.False(t, p.GoToPage(4))
	assert.Equal(t, 1, p.Page())
	assert.False(t, p.GoToPage(0))
	assert.Equal(t, 1, p.Page())

	assert.True(t, p.GoToPage(3))
	view := p.View()
	assert.Len(t, view.Records, 3)
	assert.Equal(t, 21, view.FirstItem)
	assert.Equal(t, 23, view.LastItem)
	assert.True(t, view.HasPrev)
	assert.False(t, view.HasNext)

	assert.False(t, p.NextPage())
	assert.Equal(t, 3, p.Page())
	assert.True(t, p.PrevPage())
	assert.Equal(t, 2, p.Page())
}

func TestPipelineSetPageSize(t *testing.T) {
	p := NewPipeline(makeRecords(23), 10, []int{5, 10, 25, 50})
	p.GoToPage(2)

	assert.False(t, p.SetPageSize(7))
	assert.Equal(t, 10, p.PageSize())
	assert.Equal(t, 2, p.Page())

	assert.True(t, p.SetPageSize(5))
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 5, p.TotalPages())
}

func TestNewPipelineFallsBackToDefaultSize(t *testing.T) {
	p := NewPipeline(nil, 3, nil)
	assert.Equal(t, 10, p.PageSize())

	view := p.View()
	assert.True(t, view.Empty)
	assert.Equal(t, 0, view.FirstItem)
	assert.Equal(t, 0, view.LastItem)
	assert.NotNil(t, view.Records)
}

func TestPipelineReloadKeepsCriteriaAndClampsPage(t *testing.T) {
	records := makeRecords(30)
	p := NewPipeline(records, 5, nil)
	p.ApplyFilter(FilterCriteria{Course: "matematicas"})
	require.Equal(t, 2, p.TotalPages())
	require.True(t, p.GoToPage(2))

	p.Reload(records[:12])
	assert.Equal(t, "matematicas", p.Criteria().Course)
	assert.Len(t, p.Filtered(), 4)
	assert.Equal(t, 1, p.Page())

	p.Reload(nil)
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.View().Empty)
}

func TestPipelineWithoutLeavesStateUntouched(t *testing.T) {
	p := NewPipeline(makeRecords(3), 10, nil)

	rest, ok := p.Without("rec-01")
	require.True(t, ok)
	assert.Len(t, rest, 2)
	assert.Len(t, p.Records(), 3)

	_, ok = p.Without("missing")
	assert.False(t, ok)

	_, found := p.Find("rec-02")
	assert.True(t, found)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))

	stats := ComputeStats(makeRecords(7))
	assert.Equal(t, Stats{Total: 7, Active: 2, Pending: 2, Completed: 2, Cancelled: 1, CompletionRate: 29}, stats)

	done := makeRecords(3)
	for i := range done {
		done[i].Status = models.EnrollmentStatusCompleted
	}
	assert.Equal(t, 100, ComputeStats(done).CompletionRate)
}

func TestBuildPageStrip(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    PageStrip
	}{
		{"empty", 1, 0, PageStrip{Current: 1, Pages: []int{}}},
		{"few pages", 2, 3, PageStrip{Current: 2, Total: 3, Pages: []int{1, 2, 3}}},
		{"start of long list", 1, 10, PageStrip{Current: 1, Total: 10, Pages: []int{1, 2, 3, 4, 5}, ShowLast: true, TrailingEllipsis: true}},
		{"middle", 5, 10, PageStrip{Current: 5, Total: 10, Pages: []int{3, 4, 5, 6, 7}, ShowFirst: true, LeadingEllipsis: true, ShowLast: true, TrailingEllipsis: true}},
		{"near start", 4, 10, PageStrip{Current: 4, Total: 10, Pages: []int{2, 3, 4, 5, 6}, ShowFirst: true, ShowLast: true, TrailingEllipsis: true}},
		{"end", 10, 10, PageStrip{Current: 10, Total: 10, Pages: []int{6, 7, 8, 9, 10}, ShowFirst: true, LeadingEllipsis: true}},
		{"one before end", 8, 10, PageStrip{Current: 8, Total: 10, Pages: []int{6, 7, 8, 9, 10}, ShowFirst: true, LeadingEllipsis: true}},
		{"last without ellipsis", 6, 9, PageStrip{Current: 6, Total: 9, Pages: []int{4, 5, 6, 7, 8}, ShowFirst: true, LeadingEllipsis: true, ShowLast: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildPageStrip(tc.current, tc.total))
		})
	}
}
