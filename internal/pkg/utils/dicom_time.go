package utils

import (
	"fmt"
	"orthanc-service/internal/pkg/constvars"
	"strings"
	"time"
)

const dicomDateLayout = "20060102"

// DICOM TM values may be truncated after any component. Fractional seconds
// are accepted by time.Parse after the seconds field without a layout entry.
var dicomTimeLayouts = map[int]string{
	2: "15",
	4: "1504",
	6: "150405",
}

// MakeDatetimeFromDicomDate combines a DICOM DA value with an optional TM value.
// An empty or malformed time yields midnight on the given date.
func MakeDatetimeFromDicomDate(date, dicomTime string) (time.Time, error) {
	day, err := time.ParseInLocation(dicomDateLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", constvars.ErrDevCannotParseTime, err)
	}

	clock, ok := parseDicomTime(dicomTime)
	if !ok {
		return day, nil
	}

	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC), nil
}

// ParseOrthancTimestamp parses the "YYYYMMDDTHHMMSS" form Orthanc uses for LastUpdate.
func ParseOrthancTimestamp(value string) (time.Time, error) {
	date, clock, found := strings.Cut(value, "T")
	if !found {
		return time.Time{}, fmt.Errorf(constvars.ErrDevInvalidFormat, "orthanc timestamp "+value)
	}
	return MakeDatetimeFromDicomDate(date, clock)
}

func parseDicomTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	whole := value
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		if len(whole) != 6 {
			return time.Time{}, false
		}
	}

	layout, ok := dicomTimeLayouts[len(whole)]
	if !ok {
		return time.Time{}, false
	}

	clock, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	return clock, true
}
