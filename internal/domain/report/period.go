package report

import (
	"time"

	"github.com/storemanager/backend/internal/domain/shared"
)

// PeriodName identifies a supported report period
type PeriodName string

const (
	Period7Days        PeriodName = "7days"
	Period30Days       PeriodName = "30days"
	PeriodCurrentMonth PeriodName = "current_month"
	PeriodLastMonth    PeriodName = "last_month"
	PeriodCustom       PeriodName = "custom"
)

// DateRange is an inclusive reporting window. Start is at 00:00:00 and End
// at 23:59:59 of their respective days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered by the range
func (r DateRange) Days() int {
	start := startOfDay(r.Start)
	end := startOfDay(r.End)
	return int(end.Sub(start).Hours()/24) + 1
}

const dateLayout = "2006-01-02"

// ResolvePeriod turns a period name and optional custom bounds into a
// concrete date range in the given location. Custom periods require both
// dates; errors name the offending parameter.
func ResolvePeriod(name PeriodName, dateStart, dateEnd string, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := startOfDay(now)

	switch name {
	case Period7Days, "":
		return DateRange{Start: today.AddDate(0, 0, -6), End: endOfDay(today)}, nil
	case Period30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: endOfDay(today)}, nil
	case PeriodCurrentMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{Start: first, End: endOfDay(today)}, nil
	case PeriodLastMonth:
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		first := firstOfThis.AddDate(0, -1, 0)
		last := firstOfThis.AddDate(0, 0, -1)
		return DateRange{Start: first, End: endOfDay(last)}, nil
	case PeriodCustom:
		if dateStart == "" || dateEnd == "" {
			return DateRange{}, shared.NewDomainError("INVALID_PERIOD",
				"date_start and date_end are required when period is custom")
		}
		start, err := time.ParseInLocation(dateLayout, dateStart, loc)
		if err != nil {
			return DateRange{}, shared.NewDomainError("INVALID_PERIOD",
				"date_start must be a valid date in YYYY-MM-DD format")
		}
		end, err := time.ParseInLocation(dateLayout, dateEnd, loc)
		if err != nil {
			return DateRange{}, shared.NewDomainError("INVALID_PERIOD",
				"date_end must be a valid date in YYYY-MM-DD format")
		}
		if start.After(end) {
			return DateRange{}, shared.NewDomainError("INVALID_PERIOD",
				"date_start must not be after date_end")
		}
		return DateRange{Start: start, End: endOfDay(end)}, nil
	default:
		return DateRange{}, shared.NewDomainError("INVALID_PERIOD",
			"period must be one of: 7days, 30days, current_month, last_month, custom")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
