package domain

import (
	"time"
)

// Packed dates below this value use the legacy MMDDYYHHR layout. Dates at or
// above it count 4-second steps from TimeEpoch.
const legacyDateLimit = 123200000

// DecodeTimeAxis turns the distinct packed dates of a variable into a time
// axis. The layout is chosen once for the whole axis: all zero is kept as a
// plain index, all below the legacy limit is legacy, anything else is
// decoded as 4-second steps.
func DecodeTimeAxis(codes []int64, diag *Diagnostics) TimeAxis {
	degenerate, legacy := true, true
	for _, c := range codes {
		if c != 0 {
			degenerate = false
		}
		if c >= legacyDateLimit {
			legacy = false
		}
	}
	if degenerate {
		diag.Warn("degenerate time axis detected")
		return TimeAxis{Kind: TimeIndex, Codes: codes}
	}

	times := make([]time.Time, len(codes))
	for i, c := range codes {
		if legacy {
			times[i] = decodeLegacyDate(c, diag)
		} else {
			times[i] = decodeStepDate(c)
		}
	}
	return TimeAxis{Kind: TimeCalendar, Codes: codes, Times: times}
}

// DecodeDate decodes one packed date on its own. Out-of-range legacy months
// and days are clamped to 1 with a warning.
func DecodeDate(code int64, diag *Diagnostics) time.Time {
	if code >= legacyDateLimit {
		return decodeStepDate(code)
	}
	return decodeLegacyDate(code, diag)
}

// decodeStepDate counts 4-second steps from TimeEpoch. Codes below the
// legacy limit land before the epoch.
func decodeStepDate(code int64) time.Time {
	return TimeEpoch.Add(time.Duration(code-legacyDateLimit) * 4 * time.Second)
}

func decodeLegacyDate(code int64, diag *Diagnostics) time.Time {
	v := code / 10 // run digit
	hour := v % 100
	v /= 100
	year := 1900 + v%100
	v /= 100
	day := v % 100
	month := v / 100

	if month < 1 || month > 12 {
		diag.Warn("invalid month in legacy date, using 1")
		month = 1
	}
	if day < 1 || day > 31 {
		diag.Warn("invalid day in legacy date, using 1")
		day = 1
	}
	return time.Date(int(year), time.Month(month), int(day), int(hour), 0, 0, 0, time.UTC)
}

// EncodeDate packs t in the 4-second layout. Sub-step precision is truncated.
func EncodeDate(t time.Time) int64 {
	return int64(t.Sub(TimeEpoch)/(4*time.Second)) + legacyDateLimit
}
