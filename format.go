package main

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const zeroClock = "00:00:00"

// formatDurationSmart renders "HH:MM:SS" or a second count as "1h 2m 3s",
// "2m 3s" or "3s". Used for the web-usage tooltip.
func formatDurationSmart(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "0s"
	case string:
		if strings.Contains(t, ":") {
			if h, m, s, ok := splitClock(t); ok {
				return smartUnits(h, m, s)
			}
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			f = 0
		}
		return smartSeconds(f)
	case int:
		return smartSeconds(float64(t))
	case int64:
		return smartSeconds(float64(t))
	case float64:
		return smartSeconds(t)
	default:
		return "0s"
	}
}

func smartSeconds(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	total := int64(math.Max(0, math.Floor(f)))
	return smartUnits(total/3600, (total%3600)/60, total%60)
}

func smartUnits(h, m, s int64) string {
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// prettifyTime renders "HH:MM:SS" compactly as "1h 23m", "23m" or "5s".
// Used for the summary call-stats cells.
func prettifyTime(timeStr string) string {
	if timeStr == "" || timeStr == zeroClock {
		return "0m"
	}
	h, m, s, _ := splitClock(timeStr)
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh ", h)
	}
	if m > 0 || h > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if b.Len() == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return strings.TrimSpace(b.String())
}

func splitClock(v string) (h, m, s int64, ok bool) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	vals := make([]int64, 3)
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = n
	}
	return vals[0], vals[1], vals[2], true
}

var leadingZeroHour = regexp.MustCompile(`^0+:`)

// stripZeroHour turns "00:45:12" into "45:12"; empty input counts as zero.
func stripZeroHour(v string) string {
	if v == "" {
		v = zeroClock
	}
	return leadingZeroHour.ReplaceAllString(v, "")
}

func fmtFixed2(n flexNumber) string {
	if !n.Valid {
		return "0.00"
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

// clockOrZero keeps a value only if it looks like a clock string.
func clockOrZero(s flexString) string {
	if s.Set && strings.Contains(s.Value, ":") {
		return s.Value
	}
	return zeroClock
}

// fmtGrouped renders a count with thousands separators, "1,234".
func fmtGrouped(n flexNumber) string {
	if !n.Valid {
		return "0"
	}
	return humanize.Commaf(roundTo(n.Value, 3))
}

func fmtPlain(n flexNumber) string {
	if !n.Valid {
		return "0"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func fmtOptionalGrouped(n *flexNumber) string {
	if n == nil || !n.Valid {
		return "N/A"
	}
	return humanize.Commaf(roundTo(n.Value, 3))
}

func fmtOptionalDistance(n *flexNumber) string {
	if n == nil || !n.Valid {
		return "N/A"
	}
	return humanize.FormatFloat("#,###.##", n.Value)
}

// fmtMinutes renders a minute count as "2 hr 5 min".
func fmtMinutes(n *flexNumber) string {
	if n == nil || !n.Valid {
		return "N/A"
	}
	h := math.Floor(n.Value / 60)
	m := math.Floor(math.Mod(n.Value, 60) + 0.5)
	return fmt.Sprintf("%d hr %d min", int64(h), int64(m))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
