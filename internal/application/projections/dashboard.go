package projections

import (
	"context"
	"strconv"
	"strings"
	"time"

	"repairshop/internal/adapters/storage/appointment"
	"repairshop/internal/application/listutil"
	domainAppointment "repairshop/internal/domain/appointment"
)

// DashboardQuery carries the admin dashboard's query parameters.
type DashboardQuery struct {
	Status string // exact match; empty means any
	Date   string // prefix of YYYY-MM-DD HH:MM:SS; empty or "None" means any
	Page   int
	Sort   string // "asc" or "desc"
}

// DashboardRow is one appointment with its display strings.
type DashboardRow struct {
	domainAppointment.Appointment
	FormattedDate string
	FormattedTime string
}

// DashboardResult carries the query result.
type DashboardResult struct {
	Rows         []DashboardRow
	Page         listutil.PageInfo
	StatusFilter string
	DateFilter   string
	SortOrder    string
}

// DashboardDeps holds dependencies for Dashboard.
type DashboardDeps struct {
	AppointmentStore AppointmentStore
}

// QueryDashboard lists non-cancelled appointments for the admin, 10 per page.
// PRE: none
// POST: Rows never include Cancelled appointments, whatever the filters
// INVARIANT: a date filter no instant can match returns no rows rather than being ignored
func QueryDashboard(ctx context.Context, query DashboardQuery, deps DashboardDeps) (DashboardResult, error) {
	sortOrder := listutil.SortDesc
	if query.Sort == listutil.SortAsc {
		sortOrder = listutil.SortAsc
	}
	result := DashboardResult{
		StatusFilter: query.Status,
		DateFilter:   query.Date,
		SortOrder:    sortOrder,
	}

	filter := appointment.ListFilter{
		ExcludeStatus: domainAppointment.StatusCancelled,
		Status:        query.Status,
		Ascending:     sortOrder == listutil.SortAsc,
	}
	if d := strings.TrimSpace(query.Date); d != "" && d != "None" {
		from, to, ok := DateRange(d)
		if !ok {
			result.Page = listutil.NewPageInfo(query.Page, listutil.DashboardPerPage, 0)
			return result, nil
		}
		filter.From, filter.To = from, to
	}

	total, err := deps.AppointmentStore.Count(ctx, filter)
	if err != nil {
		return DashboardResult{}, err
	}
	result.Page = listutil.NewPageInfo(query.Page, listutil.DashboardPerPage, int(total))

	filter.Limit = result.Page.PerPage
	filter.Offset = result.Page.Offset()
	list, err := deps.AppointmentStore.List(ctx, filter)
	if err != nil {
		return DashboardResult{}, err
	}
	result.Rows = make([]DashboardRow, 0, len(list))
	for _, a := range list {
		result.Rows = append(result.Rows, DashboardRow{
			Appointment:   a,
			FormattedDate: a.FormattedDate(),
			FormattedTime: a.FormattedTime(),
		})
	}
	return result, nil
}

// prefixLayout is the stored form a date filter is matched against.
const prefixLayout = "2006-01-02 15:04:05"

// dateFields are the year, month, day, hour, minute and second positions in prefixLayout.
var dateFields = [...]struct{ start, width int }{{0, 4}, {5, 2}, {8, 2}, {11, 2}, {14, 2}, {17, 2}}

// DateRange converts a prefix of "YYYY-MM-DD HH:MM:SS" into the half-open [from, to)
// range of instants whose formatted value starts with it. "2026-10-2" covers days
// 20 to 29, "2026-1" covers October to December. A 'T' may stand in for the space.
// ok is false when no valid instant has the prefix.
func DateRange(prefix string) (from, to time.Time, ok bool) {
	if prefix == "" || len(prefix) > len(prefixLayout) {
		return time.Time{}, time.Time{}, false
	}
	for i := 0; i < len(prefix); i++ {
		c, l := prefix[i], prefixLayout[i]
		switch {
		case l >= '0' && l <= '9':
			if c < '0' || c > '9' {
				return time.Time{}, time.Time{}, false
			}
		case c != l && !(i == 10 && c == 'T'):
			return time.Time{}, time.Time{}, false
		}
	}

	vals := [len(dateFields)]int{0, 1, 1, 0, 0, 0}
	for i, f := range dateFields {
		if len(prefix) <= f.start {
			// Only whole fields were given; the range is one unit of the last one.
			t := buildTime(vals)
			return t, nextUnit(t, i-1), true
		}
		digits := prefix[f.start:min(f.start+f.width, len(prefix))]
		n, _ := strconv.Atoi(digits)
		lo, hi := fieldBounds(i, vals)
		if len(digits) == f.width {
			if n < lo || n > hi {
				return time.Time{}, time.Time{}, false
			}
			vals[i] = n
			continue
		}
		scale := 1
		for range f.width - len(digits) {
			scale *= 10
		}
		first, last := max(n*scale, lo), min((n+1)*scale-1, hi)
		if first > last {
			return time.Time{}, time.Time{}, false
		}
		vals[i] = first
		from = buildTime(vals)
		vals[i] = last
		return from, nextUnit(buildTime(vals), i), true
	}
	t := buildTime(vals)
	return t, nextUnit(t, len(dateFields)-1), true
}

// fieldBounds returns the valid values of field i given the fields before it.
func fieldBounds(i int, vals [len(dateFields)]int) (lo, hi int) {
	switch i {
	case 0:
		return 1, 9999
	case 1:
		return 1, 12
	case 2:
		return 1, time.Date(vals[0], time.Month(vals[1])+1, 0, 0, 0, 0, 0, time.UTC).Day()
	case 3:
		return 0, 23
	default:
		return 0, 59
	}
}

func buildTime(v [len(dateFields)]int) time.Time {
	return time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], 0, time.UTC)
}

// nextUnit advances t by one unit of field i.
func nextUnit(t time.Time, i int) time.Time {
	switch i {
	case 0:
		return t.AddDate(1, 0, 0)
	case 1:
		return t.AddDate(0, 1, 0)
	case 2:
		return t.AddDate(0, 0, 1)
	case 3:
		return t.Add(time.Hour)
	case 4:
		return t.Add(time.Minute)
	default:
		return t.Add(time.Second)
	}
}
