package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// startTimeField is the position of starttime among the /proc/<pid>/stat
// fields after the parenthesized comm, counting from the state field.
const startTimeField = 20

// ProcessStartTicks returns the process creation time as clock ticks since
// boot, read from /proc/<pid>/stat. The value is monotonically comparable
// across processes on the same host. Returns 0 ("oldest possible") when
// the process has exited or access is denied - an unreadable timestamp
// must not abort ordering of the remaining windows.
func ProcessStartTicks(pid int) int64 {
	if pid <= 0 {
		return 0
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0
	}
	ticks, err := parseStartTicks(data)
	if err != nil {
		return 0
	}
	return ticks
}

// parseStartTicks extracts starttime from the raw stat line. The comm field
// is parenthesized and may itself contain spaces and parens, so fields are
// counted from after the last ')'.
func parseStartTicks(data []byte) (int64, error) {
	stat := string(data)
	end := strings.LastIndexByte(stat, ')')
	if end < 0 || end+2 > len(stat) {
		return 0, fmt.Errorf("malformed stat line")
	}

	fields := strings.Fields(stat[end+1:])
	if len(fields) < startTimeField {
		return 0, fmt.Errorf("stat line has %d fields, want at least %d", len(fields), startTimeField)
	}

	ticks, err := strconv.ParseInt(fields[startTimeField-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad starttime field: %w", err)
	}
	return ticks, nil
}
