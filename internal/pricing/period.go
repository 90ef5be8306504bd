package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FirstForecastYear is the earliest year offered for forecasting.
const FirstForecastYear = 2024

var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var validate = validator.New()

// ErrInvalidPeriod is wrapped by every period validation failure.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a calendar (year, month) pair.
type Period struct {
	Year  int `json:"year" validate:"gte=1"`
	Month int `json:"month" validate:"gte=1,lte=12"`
}

// NewPeriod builds a validated period.
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Validate checks the month range and year sign.
func (p Period) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate period: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", strings.ToLower(fe.Field()), fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", strings.ToLower(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return fmt.Errorf("%w %d/%d: %s", ErrInvalidPeriod, p.Month, p.Year, strings.Join(msgs, "; "))
}

// Key folds the period into a sortable integer (year*100+month).
func (p Period) Key() int {
	return p.Year*100 + p.Month
}

// Before reports whether p sorts strictly before other.
func (p Period) Before(other Period) bool {
	return p.Key() < other.Key()
}

// Previous returns the preceding month, rolling January into December.
func (p Period) Previous() Period {
	if p.Month <= 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// MonthName returns the Indonesian month name, or "" if out of range.
func (p Period) MonthName() string {
	if p.Month < 1 || p.Month > 12 {
		return ""
	}
	return monthNames[p.Month-1]
}

// Label renders e.g. "Januari 2024".
func (p Period) Label() string {
	name := p.MonthName()
	if name == "" {
		return p.Short()
	}
	return fmt.Sprintf("%s %d", name, p.Year)
}

// Short renders e.g. "1/2024".
func (p Period) Short() string {
	return fmt.Sprintf("%d/%d", p.Month, p.Year)
}

// ParsePeriod parses "2024-03" or "2024-3".
func ParsePeriod(v string) (Period, error) {
	yearStr, monthStr, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidPeriod, v)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: year %q: %v", ErrInvalidPeriod, yearStr, err)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: month %q: %v", ErrInvalidPeriod, monthStr, err)
	}
	return NewPeriod(year, month)
}

// Next returns the following month, rolling December into January.
func (p Period) Next() Period {
	if p.Month >= 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// YearOptions lists the selectable forecast years: FirstForecastYear
// through five years after now.
func YearOptions(now time.Time) []int {
	last := now.Year() + 5
	if last < FirstForecastYear {
		return nil
	}
	years := make([]int, 0, last-FirstForecastYear+1)
	for y := FirstForecastYear; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// YearAllowed reports whether year is one of YearOptions(now).
func YearAllowed(year int, now time.Time) bool {
	return year >= FirstForecastYear && year <= now.Year()+5
}
