package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var fmtNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Second, "0m"},
		{45 * time.Minute, "45m"},
		{2 * time.Hour, "2h"},
		{90 * time.Minute, "1h 30m"},
		{24 * time.Hour, "1d"},
		{76 * time.Hour, "3d 4h"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.in), "in=%s", tc.in)
	}
}

func TestWindowPhase(t *testing.T) {
	start := fmtNow.Add(time.Hour)
	end := start.Add(24 * time.Hour)

	assert.Equal(t, "opens in 1h", stripANSI(WindowPhase(start, end, fmtNow)))
	assert.Equal(t, "closes in 1d", stripANSI(WindowPhase(start, end, start)))
	assert.Equal(t, "closes in 0m", stripANSI(WindowPhase(start, end, end)))
	assert.Equal(t, "closed 2h ago", stripANSI(WindowPhase(start, end, end.Add(2*time.Hour))))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef12-3456-7890")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}

func TestTimestamp_IsUTC(t *testing.T) {
	local := time.Date(2025, 3, 1, 14, 30, 0, 0, time.FixedZone("X", 2*3600))
	assert.Equal(t, "2025-03-01 12:30 UTC", Timestamp(local))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "BB"}, [][]string{{"long-cell", "x"}, {"s", "y"}}))
	lines := splitLines(out)
	assert.Len(t, lines, 4)
	assert.Equal(t, "A          BB", lines[0])
	assert.Equal(t, "long-cell  x", lines[2])
	assert.Equal(t, "s          y", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestQuorumProgress(t *testing.T) {
	assert.Equal(t, "[██░░] 1/2", stripANSI(QuorumProgress(1, 2, 4)))
	assert.Equal(t, "[████] 5/3", stripANSI(QuorumProgress(5, 3, 4)))
	assert.Equal(t, "[░░░░] 0/4", stripANSI(QuorumProgress(0, 4, 4)))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
