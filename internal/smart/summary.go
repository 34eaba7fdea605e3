package smart

import "fmt"

// Overall verdicts for a collection
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// Summary counts attributes per health state
type Summary struct {
	Total        int    `json:"total"`
	Pass         int    `json:"pass"`
	NoThreshold  int    `json:"no_threshold"`
	FailedInPast int    `json:"failed_in_past"`
	FailingNow   int    `json:"failing_now"`
	Status       string `json:"status"`
}

// Summarize tallies c. Any FailingNow attribute makes the verdict
// critical, otherwise any FailedInPast makes it a warning.
func Summarize(c *Collection) Summary {
	s := Summary{Status: StatusHealthy}
	for i := 0; i < c.Len(); i++ {
		s.Total++
		switch c.At(i).Health {
		case Pass:
			s.Pass++
		case NoThreshold:
			s.NoThreshold++
		case FailedInPast:
			s.FailedInPast++
		case FailingNow:
			s.FailingNow++
		}
	}

	switch {
	case s.FailingNow > 0:
		s.Status = StatusCritical
	case s.FailedInPast > 0:
		s.Status = StatusWarning
	}
	return s
}

// Names maps attribute ids to display names. It is supplied by
// configuration and never consulted during decode.
type Names map[uint8]string

// Name returns the display name for id, or a generic label
func (n Names) Name(id uint8) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Unknown_Attribute_%d", id)
}
