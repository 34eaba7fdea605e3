package smart

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAcquisition is wrapped by every failure to obtain the raw tables
var ErrAcquisition = errors.New("smart tables unavailable")

// Table names used in AcquisitionError. TableUnknown is used when a
// Source fails without saying which table it was reading.
const (
	TableData       = "data"
	TableThresholds = "thresholds"
	TableUnknown    = "tables"
)

// AcquisitionError reports which table a Source failed to produce
type AcquisitionError struct {
	Table string
	Err   error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("reading smart %s: %v", e.Table, e.Err)
}

func (e *AcquisitionError) Unwrap() []error {
	return []error{ErrAcquisition, e.Err}
}

// Tables is the raw pair returned by a device for one read cycle
type Tables struct {
	Data       []byte
	Thresholds []byte
}

// Source supplies the raw SMART tables. Implementations read the data
// table first and only attempt the threshold table if that succeeded.
// Failures should be returned as *AcquisitionError naming the table;
// other errors are reported against TableUnknown.
type Source interface {
	ReadTables() (Tables, error)
}

// Collection is the ordered, read-only result of one read cycle. Order is
// table slot order, not attribute id order.
type Collection struct {
	attrs []Attribute
}

// Len returns the number of attributes
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.attrs)
}

// At returns the attribute at position i. Like a slice index it panics
// when i is outside [0, Len()); a nil Collection is empty.
func (c *Collection) At(i int) Attribute {
	var attrs []Attribute
	if c != nil {
		attrs = c.attrs
	}
	return attrs[i]
}

// All returns a copy of the attributes in slot order
func (c *Collection) All() []Attribute {
	if c == nil {
		return nil
	}
	out := make([]Attribute, len(c.attrs))
	copy(out, c.attrs)
	return out
}

// Find returns the first attribute with the given id
func (c *Collection) Find(id uint8) (Attribute, bool) {
	if c == nil {
		return Attribute{}, false
	}
	for _, a := range c.attrs {
		if a.ID == id {
			return a, true
		}
	}
	return Attribute{}, false
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	attrs := c.All()
	if attrs == nil {
		attrs = []Attribute{}
	}
	return json.Marshal(attrs)
}

// Decode builds a Collection from a pair of raw tables. It performs no I/O
// and returns identical output for identical input.
func Decode(t Tables) (*Collection, error) {
	if err := checkTable(TableData, t.Data); err != nil {
		return nil, err
	}
	if err := checkTable(TableThresholds, t.Thresholds); err != nil {
		return nil, err
	}

	records := decodeRecords(t.Data)
	attrs := make([]Attribute, 0, len(records))
	for _, r := range records {
		threshold := ResolveThreshold(r.id, t.Thresholds)
		attrs = append(attrs, Attribute{
			ID:           r.id,
			Flag:         r.flag,
			Current:      r.current,
			Worst:        r.worst,
			Threshold:    threshold,
			RawValue:     r.raw,
			Category:     CategoryOf(r.flag),
			UpdatePolicy: UpdatePolicyOf(r.flag),
			Health:       Classify(r.current, r.worst, threshold, r.flag),
		})
	}

	return &Collection{attrs: attrs}, nil
}

// Read runs one full read cycle against src. Either both tables are read
// and decoded, or an error wrapping ErrAcquisition is returned with no
// collection.
func Read(src Source) (*Collection, error) {
	tables, err := src.ReadTables()
	if err != nil {
		var acqErr *AcquisitionError
		if errors.As(err, &acqErr) {
			return nil, err
		}
		return nil, &AcquisitionError{Table: TableUnknown, Err: err}
	}
	coll, err := Decode(tables)
	if err != nil {
		return nil, &AcquisitionError{Table: tableOf(tables), Err: err}
	}
	return coll, nil
}

// tableOf names the first table that failed the size check
func tableOf(t Tables) string {
	if len(t.Data) != TableSize {
		return TableData
	}
	return TableThresholds
}
