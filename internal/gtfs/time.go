package gtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime converts a GTFS "H+:MM:SS" clock value into seconds since
// midnight. Hours may exceed 23 for trips rolling past midnight; no 24 h
// wraparound is applied.
func ParseTime(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed GTFS time %q", value)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed GTFS time %q", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", value)
	}
	s, err := strconv.Atoi(parts[2])
	if err != nil || s < 0 || s > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", value)
	}

	return h*3600 + m*60 + s, nil
}

// FormatTime renders seconds since midnight in the same H+:MM:SS form.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
