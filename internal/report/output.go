package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sigreer/smartattr/internal/smart"
)

// AttributesResult is the JSON shape of one read cycle
type AttributesResult struct {
	Device     string            `json:"device"`
	Timestamp  time.Time         `json:"timestamp"`
	Attributes *smart.Collection `json:"attributes"`
	Summary    smart.Summary     `json:"summary"`
}

// NewAttributesResult wraps a collection for output
func NewAttributesResult(device string, coll *smart.Collection) *AttributesResult {
	return &AttributesResult{
		Device:     device,
		Timestamp:  time.Now(),
		Attributes: coll,
		Summary:    smart.Summarize(coll),
	}
}

// PrintJSON outputs v as indented JSON
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTable outputs the attributes in smartctl -A column order
func PrintTable(w io.Writer, coll *smart.Collection, names smart.Names) {
	fmt.Fprintf(w, "%3s %-24s %-6s %5s %5s %6s %-8s %-7s %-11s %s\n",
		"ID", "ATTRIBUTE_NAME", "FLAG", "VALUE", "WORST", "THRESH", "TYPE", "UPDATED", "WHEN_FAILED", "RAW_VALUE")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, a := range coll.All() {
		fmt.Fprintf(w, "%3d %-24s 0x%04x %5d %5d %6d %-8s %-7s %-11s %s\n",
			a.ID,
			truncate(names.Name(a.ID), 24),
			a.Flag,
			a.Current,
			a.Worst,
			a.Threshold,
			a.Category,
			a.UpdatePolicy,
			a.Health,
			humanize.Comma(int64(a.RawValue)),
		)
	}
}

// PrintSummary outputs the one-line verdict
func PrintSummary(w io.Writer, s smart.Summary) {
	symbol := "✓"
	switch s.Status {
	case smart.StatusWarning:
		symbol = "⚠"
	case smart.StatusCritical:
		symbol = "✗"
	}
	fmt.Fprintf(w, "%s %s: %d attributes | pass %d | no threshold %d | failed in past %d | failing now %d\n",
		symbol, strings.ToUpper(s.Status), s.Total, s.Pass, s.NoThreshold, s.FailedInPast, s.FailingNow)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
