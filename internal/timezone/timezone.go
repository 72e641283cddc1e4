package timezone

import "time"

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// The shop runs on Brasília time. A fixed offset is used instead of
// America/Sao_Paulo so "today" never depends on the host tzdata.
var shopLocation = time.FixedZone("BRT", -3*60*60)

func Location() *time.Location {
	return shopLocation
}

func Now() time.Time {
	return time.Now().In(shopLocation)
}

func Today() string {
	return Now().Format(DateLayout)
}

func DateOf(t time.Time) string {
	return t.In(shopLocation).Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, shopLocation)
}

func ParseDateTime(date, hm string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+hm, shopLocation)
}

func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

func IsValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// MonthRange returns the first day of the month and the first day of the
// next one, both as YYYY-MM-DD.
func MonthRange(year int, month time.Month) (string, string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, shopLocation)
	return start.Format(DateLayout), start.AddDate(0, 1, 0).Format(DateLayout)
}
