package analytics

import (
	"sort"
	"strings"
	"time"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
)

type ListFilter struct {
	// Status matches currentStatus exactly after case folding. Empty matches all.
	Status string
	// CompanyContains is a case-insensitive substring of the company name.
	CompanyContains string
}

type SortField string

const (
	SortCreatedAt     SortField = "createdAt"
	SortUpdatedAt     SortField = "updatedAt"
	SortAppliedAt     SortField = "appliedAt"
	SortCompany       SortField = "company"
	SortJobTitle      SortField = "jobTitle"
	SortCurrentStatus SortField = "currentStatus"
)

type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: SortCreatedAt, Desc: true}

// ParseSort accepts camelCase or snake_case field names and "asc"/"desc".
// Unknown fields fall back to createdAt; the direction defaults to descending.
func ParseSort(field, order string) Sort {
	s := DefaultSort
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(field), "_", "")) {
	case "updatedat":
		s.Field = SortUpdatedAt
	case "appliedat":
		s.Field = SortAppliedAt
	case "company":
		s.Field = SortCompany
	case "jobtitle":
		s.Field = SortJobTitle
	case "currentstatus", "status":
		s.Field = SortCurrentStatus
	}
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		s.Desc = false
	}
	return s
}

// ListApplications filters and orders apps. Equal keys keep their input order.
func ListApplications(apps []*types.Application, filter ListFilter, order Sort) []*types.Application {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	company := strings.ToLower(strings.TrimSpace(filter.CompanyContains))

	out := make([]*types.Application, 0, len(apps))
	for _, app := range apps {
		if app == nil {
			continue
		}
		if status != "" && string(app.CurrentStatus) != status {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(app.Company), company) {
			continue
		}
		out = append(out, app)
	}

	if order.Field == "" {
		order = DefaultSort
	}
	cmp := comparator(order.Field)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func comparator(field SortField) func(a, b *types.Application) int {
	switch field {
	case SortUpdatedAt:
		return func(a, b *types.Application) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case SortAppliedAt:
		return func(a, b *types.Application) int { return derefTime(a.AppliedAt).Compare(derefTime(b.AppliedAt)) }
	case SortCompany:
		return func(a, b *types.Application) int { return strings.Compare(a.Company, b.Company) }
	case SortJobTitle:
		return func(a, b *types.Application) int { return strings.Compare(a.JobTitle, b.JobTitle) }
	case SortCurrentStatus:
		return func(a, b *types.Application) int { return strings.Compare(string(a.CurrentStatus), string(b.CurrentStatus)) }
	default:
		return func(a, b *types.Application) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
