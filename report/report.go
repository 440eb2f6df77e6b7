package report

import (
	"sync"

	"go.innotegrity.dev/xfault"
)

// Summary holds aggregate statistics for a sequence of errors.
type Summary struct {
	// CountByCode maps each observed code to the number of times it occurred.
	CountByCode map[xfault.Code]int `json:"count_by_code"`

	// CountBySeverity maps each observed severity to the number of times it occurred.
	CountBySeverity map[xfault.Severity]int `json:"count_by_severity"`

	// HasHighest is true when at least one error was observed and HighestSeverity is meaningful.
	HasHighest bool `json:"has_highest"`

	// HasMostCommon is true when at least one error was observed and MostCommonCode is meaningful.
	HasMostCommon bool `json:"has_most_common"`

	// HighestSeverity is the highest severity observed.
	HighestSeverity xfault.Severity `json:"highest_severity"`

	// MostCommonCode is the code observed most often. Ties are broken by first occurrence order.
	MostCommonCode xfault.Code `json:"most_common_code"`

	// TotalCount is the total number of errors observed.
	TotalCount int `json:"total_count"`
}

// Summarize computes a [Summary] over the given errors.
//
// The function is pure and deterministic: the same sequence always yields the same summary, with most-common
// ties broken by first occurrence order. Nil entries are ignored. An empty input yields zero counts with the
// presence flags unset.
func Summarize(errors []*xfault.Error) Summary {
	summary := Summary{
		CountByCode:     map[xfault.Code]int{},
		CountBySeverity: map[xfault.Severity]int{},
	}

	var order []xfault.Code
	for _, e := range errors {
		if e == nil {
			continue
		}
		if _, seen := summary.CountByCode[e.Code()]; !seen {
			order = append(order, e.Code())
		}
		summary.CountByCode[e.Code()]++
		summary.CountBySeverity[e.Severity()]++
		summary.TotalCount++

		if !summary.HasHighest || e.Severity() > summary.HighestSeverity {
			summary.HasHighest = true
			summary.HighestSeverity = e.Severity()
		}
	}

	// walking codes in first-occurrence order makes the tie-break deterministic
	best := 0
	for _, code := range order {
		if summary.CountByCode[code] > best {
			best = summary.CountByCode[code]
			summary.MostCommonCode = code
			summary.HasMostCommon = true
		}
	}
	return summary
}

// Reporter collects a live stream of errors for post-hoc summaries.
//
// A Reporter is safe for concurrent use.
type Reporter struct {
	// unexported variables
	errors []*xfault.Error // recorded errors in arrival order
	mu     sync.Mutex      // protects the error slice
}

// NewReporter creates a new [Reporter] object.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Record adds an error to the stream. Nil errors are ignored.
func (r *Reporter) Record(e *xfault.Error) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, e)
}

// Len returns the number of errors recorded so far.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// Summary computes a [Summary] over the errors recorded so far.
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summarize(r.errors)
}

// Reset discards all recorded errors.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
}
