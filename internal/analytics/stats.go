package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
)

type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

const topCompaniesLimit = 10

// ParsePeriod maps "" to all and rejects anything outside the known set.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", domainagg.Validation("Analytics.Stats", "period must be one of all, week, month, year")
	}
}

// Start returns the inclusive lower bound on createdAt, and false for all.
// Month and year step back by calendar units, normalizing overflow days.
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalApplications int                  `json:"total_applications"`
	StatusBreakdown   map[types.Status]int `json:"status_breakdown"`
	CompanyBreakdown  map[string]int       `json:"company_breakdown"`
	MonthlyBreakdown  map[string]int       `json:"monthly_breakdown"`
	InterviewRate     float64              `json:"interview_rate"`
	OfferRate         float64              `json:"offer_rate"`
	TopCompanies      []CompanyCount       `json:"top_companies"`
	Timeline          []MonthCount         `json:"timeline"`
	Period            Period               `json:"period"`
}

// ComputeStats aggregates the applications created inside period.
// Month buckets use the UTC "YYYY-MM" of createdAt.
func ComputeStats(apps []*types.Application, now time.Time, period Period) (Stats, error) {
	if period == "" {
		period = PeriodAll
	}
	if _, err := ParsePeriod(string(period)); err != nil {
		return Stats{}, err
	}
	start, bounded := period.Start(now)

	st := Stats{
		StatusBreakdown:  make(map[types.Status]int, len(types.Statuses)),
		CompanyBreakdown: map[string]int{},
		MonthlyBreakdown: map[string]int{},
		TopCompanies:     []CompanyCount{},
		Timeline:         []MonthCount{},
		Period:           period,
	}
	for _, s := range types.Statuses {
		st.StatusBreakdown[s] = 0
	}

	var companyOrder []string
	for _, app := range apps {
		if app == nil {
			continue
		}
		if bounded && app.CreatedAt.Before(start) {
			continue
		}
		st.TotalApplications++
		st.StatusBreakdown[app.CurrentStatus]++
		if _, seen := st.CompanyBreakdown[app.Company]; !seen {
			companyOrder = append(companyOrder, app.Company)
		}
		st.CompanyBreakdown[app.Company]++
		st.MonthlyBreakdown[app.CreatedAt.UTC().Format("2006-01")]++
	}

	if st.TotalApplications > 0 {
		total := float64(st.TotalApplications)
		interviews := st.StatusBreakdown[types.StatusInterviewScheduled] + st.StatusBreakdown[types.StatusOffered]
		st.InterviewRate = round2(float64(interviews) / total * 100)
		st.OfferRate = round2(float64(st.StatusBreakdown[types.StatusOffered]) / total * 100)
	}

	for _, c := range companyOrder {
		st.TopCompanies = append(st.TopCompanies, CompanyCount{Company: c, Count: st.CompanyBreakdown[c]})
	}
	sort.SliceStable(st.TopCompanies, func(i, j int) bool {
		return st.TopCompanies[i].Count > st.TopCompanies[j].Count
	})
	if len(st.TopCompanies) > topCompaniesLimit {
		st.TopCompanies = st.TopCompanies[:topCompaniesLimit]
	}

	for month, n := range st.MonthlyBreakdown {
		st.Timeline = append(st.Timeline, MonthCount{Month: month, Count: n})
	}
	sort.Slice(st.Timeline, func(i, j int) bool {
		return st.Timeline[i].Month < st.Timeline[j].Month
	})
	return st, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
