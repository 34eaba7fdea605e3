package smart

import (
	"encoding/json"
	"fmt"
)

// SMART table geometry. Both the attribute data table and the threshold
// table share the same layout: a 2-byte revision header followed by 30
// fixed-width records.
const (
	TableSize   = 512
	HeaderSize  = 2
	RecordSize  = 12
	RecordCount = 30
)

// Flag bits
const (
	FlagPrefail       uint16 = 0x0001
	FlagAlwaysUpdated uint16 = 0x0002
)

// Category is derived from flag bit 0
type Category uint8

const (
	OldAge Category = iota
	Prefail
)

// String returns the smartctl-style label
func (c Category) String() string {
	if c == Prefail {
		return "pre-fail"
	}
	return "old_age"
}

// Token returns the stable machine-readable name used in JSON
func (c Category) Token() string {
	if c == Prefail {
		return "pre-fail"
	}
	return "old-age"
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Token())
}

// UpdatePolicy is derived from flag bit 1
type UpdatePolicy uint8

const (
	Offline UpdatePolicy = iota
	Always
)

func (u UpdatePolicy) String() string {
	if u == Always {
		return "Always"
	}
	return "Offline"
}

func (u UpdatePolicy) Token() string {
	if u == Always {
		return "always"
	}
	return "offline"
}

func (u UpdatePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Token())
}

// HealthState is the when-failed classification of an attribute
type HealthState uint8

const (
	Pass HealthState = iota
	NoThreshold
	FailedInPast
	FailingNow
)

var healthLabels = map[HealthState][2]string{
	Pass:         {"pass", "pass"},
	NoThreshold:  {"-", "no-threshold"},
	FailedInPast: {"In The Past", "failed-in-past"},
	FailingNow:   {"Failing Now", "failing-now"},
}

// String returns the WHEN_FAILED column text
func (h HealthState) String() string {
	if l, ok := healthLabels[h]; ok {
		return l[0]
	}
	return fmt.Sprintf("HealthState(%d)", uint8(h))
}

func (h HealthState) Token() string {
	if l, ok := healthLabels[h]; ok {
		return l[1]
	}
	return "unknown"
}

func (h HealthState) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Token())
}

// Attribute is one decoded SMART attribute with its derived classification
type Attribute struct {
	ID           uint8        `json:"id"`
	Flag         uint16       `json:"flag"`
	Current      uint8        `json:"value"`
	Worst        uint8        `json:"worst"`
	Threshold    uint8        `json:"threshold"`
	RawValue     uint64       `json:"raw_value"`
	Category     Category     `json:"type"`
	UpdatePolicy UpdatePolicy `json:"updated"`
	Health       HealthState  `json:"when_failed"`
}
