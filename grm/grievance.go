package grm

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Priority levels accepted by the GRM API.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Grievance is a case record as returned by the GRM API.
type Grievance struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	CPGRAMSCategory string    `json:"cpgrams_category"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	UserID          string    `json:"user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateGrievanceInput is the payload for filing a new grievance.
// UserID is injected by the caller, never by the model.
type CreateGrievanceInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	CPGRAMSCategory string `json:"cpgrams_category"`
	Priority        string `json:"priority"`
	UserID          string `json:"user_id"`
}

// CategoryPrediction is one ranked classification candidate.
type CategoryPrediction struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Pagination describes one page of a grievance listing.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// GrievancePage is a sorted, filtered, paginated slice of a user's
// grievances.
type GrievancePage struct {
	Grievances []Grievance `json:"grievances"`
	Pagination Pagination  `json:"pagination"`
}

// Paginate sorts grievances newest-first, applies an optional
// case-insensitive status filter, and returns the requested page.
// A status of "" or "all" disables the filter. Page numbers are
// 1-based; a page past the end yields an empty slice.
func Paginate(grievances []Grievance, page, limit int, status string) GrievancePage {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	sorted := make([]Grievance, len(grievances))
	copy(sorted, grievances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if status != "" && !strings.EqualFold(status, "all") {
		filtered := sorted[:0]
		for _, g := range sorted {
			if strings.EqualFold(g.Status, status) {
				filtered = append(filtered, g)
			}
		}
		sorted = filtered
	}

	total := len(sorted)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return GrievancePage{
		Grievances: sorted[start:end],
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
