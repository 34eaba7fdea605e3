package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sigreer/smartattr/internal/smart"
)

// FailingAttribute is an attribute that did not pass
type FailingAttribute struct {
	ID        uint8             `json:"id"`
	Name      string            `json:"name"`
	Value     uint8             `json:"value"`
	Worst     uint8             `json:"worst"`
	Threshold uint8             `json:"threshold"`
	State     smart.HealthState `json:"when_failed"`
}

// Event is the health message published for one read cycle
type Event struct {
	Device    string             `json:"device"`
	Cycle     string             `json:"cycle"`
	Timestamp time.Time          `json:"timestamp"`
	Severity  string             `json:"severity"` // info, warning, critical
	Message   string             `json:"message"`
	Summary   smart.Summary      `json:"summary"`
	Failing   []FailingAttribute `json:"failing,omitempty"`
}

// Publisher is satisfied by *nats.Conn
type Publisher interface {
	Publish(subject string, data []byte) error
}

// BuildEvent converts a collection into a health event
func BuildEvent(device, cycle string, coll *smart.Collection, names smart.Names) Event {
	summary := smart.Summarize(coll)
	ev := Event{
		Device:    device,
		Cycle:     cycle,
		Timestamp: time.Now(),
		Summary:   summary,
	}

	for _, a := range coll.All() {
		if a.Health != smart.FailingNow && a.Health != smart.FailedInPast {
			continue
		}
		ev.Failing = append(ev.Failing, FailingAttribute{
			ID:        a.ID,
			Name:      names.Name(a.ID),
			Value:     a.Current,
			Worst:     a.Worst,
			Threshold: a.Threshold,
			State:     a.Health,
		})
	}

	switch summary.Status {
	case smart.StatusCritical:
		ev.Severity = "critical"
		ev.Message = fmt.Sprintf("%s: %d attribute(s) failing now", device, summary.FailingNow)
	case smart.StatusWarning:
		ev.Severity = "warning"
		ev.Message = fmt.Sprintf("%s: %d attribute(s) failed in the past", device, summary.FailedInPast)
	default:
		ev.Severity = "info"
		ev.Message = fmt.Sprintf("%s: all %d attributes healthy", device, summary.Total)
	}
	return ev
}

// PublishEvent marshals ev and publishes it on subject
func PublishEvent(p Publisher, subject string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Connect opens a NATS connection and returns it with a flush-and-close
// function for the caller to defer.
func Connect(url string) (*nats.Conn, func(), error) {
	nc, err := nats.Connect(url, nats.Name("smartattr"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, func() {
		_ = nc.Flush()
		nc.Close()
	}, nil
}
