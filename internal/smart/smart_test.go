package smart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// putAttr writes an attribute record into slot i of a data table
func putAttr(table []byte, i int, id uint8, flag uint16, current, worst uint8, raw [6]byte) {
	s := table[HeaderSize+i*RecordSize:]
	s[0] = id
	s[1] = byte(flag)
	s[2] = byte(flag >> 8)
	s[3] = current
	s[4] = worst
	copy(s[5:11], raw[:])
}

// putThresh writes a threshold record into slot i of a threshold table
func putThresh(table []byte, i int, id, threshold uint8) {
	s := table[HeaderSize+i*RecordSize:]
	s[0] = id
	s[1] = threshold
}

type fakeSource struct {
	tables Tables
	err    error
}

func (f *fakeSource) ReadTables() (Tables, error) {
	return f.tables, f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		threshold uint8
		current   uint8
		worst     uint8
		flag      uint16
		want      HealthState
	}{
		{"no threshold", 0, 50, 50, 0x0000, NoThreshold},
		{"prefail below threshold", 10, 5, 20, 0x0001, FailingNow},
		{"old-age worst below threshold", 10, 15, 8, 0x0000, FailedInPast},
		{"prefail passing", 10, 15, 20, 0x0001, Pass},
		{"old-age current below threshold is not failing", 10, 5, 20, 0x0000, Pass},
		{"prefail at threshold", 10, 10, 10, 0x0001, FailingNow},
		{"old-age worst at threshold", 10, 50, 10, 0x0002, FailedInPast},
		{"no threshold wins over everything", 0, 0, 0, 0x0003, NoThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.current, tt.worst, tt.threshold, tt.flag))
		})
	}
}

func TestFlagBits(t *testing.T) {
	assert.Equal(t, Prefail, CategoryOf(0x0001))
	assert.Equal(t, OldAge, CategoryOf(0x0002))
	assert.Equal(t, Always, UpdatePolicyOf(0x0002))
	assert.Equal(t, Offline, UpdatePolicyOf(0x0001))
	assert.Equal(t, Prefail, CategoryOf(0xff01))
}

func TestRawValue(t *testing.T) {
	assert.Equal(t, uint64(1), rawValue([]byte{1, 0, 0, 0, 0, 0}))
	assert.Equal(t, uint64(0x060504030201), rawValue([]byte{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, uint64(1<<48-1), rawValue([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}))
}

func TestDecodeRecordsSkipsEmptySlots(t *testing.T) {
	data := make([]byte, TableSize)
	data[0], data[1] = 0x10, 0x00
	putAttr(data, 0, 1, 0x000f, 100, 99, [6]byte{})
	putAttr(data, 5, 9, 0x0032, 98, 98, [6]byte{0x10, 0x27})
	putAttr(data, 29, 194, 0x0022, 36, 50, [6]byte{36})

	records := decodeRecords(data)
	require.Len(t, records, 3)
	assert.Equal(t, uint8(1), records[0].id)
	assert.Equal(t, uint16(0x000f), records[0].flag)
	assert.Equal(t, uint8(9), records[1].id)
	assert.Equal(t, uint64(10000), records[1].raw)
	assert.Equal(t, uint8(194), records[2].id)
}

func TestDecodeIgnoresPaddingPastRecords(t *testing.T) {
	data := make([]byte, TableSize)
	for i := HeaderSize + RecordCount*RecordSize; i < TableSize; i++ {
		data[i] = 0xff
	}
	coll, err := Decode(Tables{Data: data, Thresholds: make([]byte, TableSize)})
	require.NoError(t, err)
	assert.Equal(t, 0, coll.Len())
}

func TestResolveThreshold(t *testing.T) {
	thresholds := make([]byte, TableSize)
	putThresh(thresholds, 0, 1, 51)
	putThresh(thresholds, 3, 5, 140)
	putThresh(thresholds, 7, 5, 10)

	assert.Equal(t, uint8(51), ResolveThreshold(1, thresholds))
	assert.Equal(t, uint8(140), ResolveThreshold(5, thresholds), "first match in scan order wins")
	assert.Equal(t, uint8(0), ResolveThreshold(200, thresholds))
}

func TestReadSingleAttribute(t *testing.T) {
	data := make([]byte, TableSize)
	thresholds := make([]byte, TableSize)
	putAttr(data, 0, 5, 0x0003, 90, 80, [6]byte{1, 0, 0, 0, 0, 0})
	putThresh(thresholds, 0, 5, 70)

	coll, err := Read(&fakeSource{tables: Tables{Data: data, Thresholds: thresholds}})
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())

	a := coll.At(0)
	assert.Equal(t, uint8(5), a.ID)
	assert.Equal(t, uint16(0x0003), a.Flag)
	assert.Equal(t, uint8(90), a.Current)
	assert.Equal(t, uint8(80), a.Worst)
	assert.Equal(t, uint8(70), a.Threshold)
	assert.Equal(t, uint64(1), a.RawValue)
	assert.Equal(t, Prefail, a.Category)
	assert.Equal(t, Always, a.UpdatePolicy)
	assert.Equal(t, Pass, a.Health)
}

func TestReadKeepsSlotOrder(t *testing.T) {
	data := make([]byte, TableSize)
	putAttr(data, 0, 194, 0x0022, 36, 50, [6]byte{})
	putAttr(data, 1, 1, 0x000f, 100, 99, [6]byte{})
	putAttr(data, 2, 9, 0x0032, 98, 98, [6]byte{})

	coll, err := Read(&fakeSource{tables: Tables{Data: data, Thresholds: make([]byte, TableSize)}})
	require.NoError(t, err)

	var ids []uint8
	for _, a := range coll.All() {
		ids = append(ids, a.ID)
		assert.Equal(t, uint8(0), a.Threshold)
		assert.Equal(t, NoThreshold, a.Health)
	}
	assert.Equal(t, []uint8{194, 1, 9}, ids)
}

func TestDecodeIsIdempotent(t *testing.T) {
	data := make([]byte, TableSize)
	thresholds := make([]byte, TableSize)
	for i := 0; i < RecordCount; i++ {
		putAttr(data, i, uint8(i+1), uint16(i), uint8(200-i), uint8(180-i), [6]byte{byte(i), 0xff, 0, 0, 0, 0xff})
		putThresh(thresholds, RecordCount-1-i, uint8(i+1), uint8(i*5))
	}

	first, err := Decode(Tables{Data: data, Thresholds: thresholds})
	require.NoError(t, err)
	second, err := Decode(Tables{Data: data, Thresholds: thresholds})
	require.NoError(t, err)

	assert.Equal(t, first.All(), second.All())
	assert.Equal(t, RecordCount, first.Len())
	for _, a := range first.All() {
		assert.NotZero(t, a.ID)
		assert.Less(t, a.RawValue, uint64(1)<<48)
	}
}

func TestDecodeAllZero(t *testing.T) {
	coll, err := Decode(Tables{Data: make([]byte, TableSize), Thresholds: make([]byte, TableSize)})
	require.NoError(t, err)
	assert.Equal(t, 0, coll.Len())

	out, err := json.Marshal(coll)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	_, err := Decode(Tables{Data: make([]byte, 100), Thresholds: make([]byte, TableSize)})
	assert.ErrorIs(t, err, ErrBufferSize)
}

func TestReadAcquisitionFailure(t *testing.T) {
	cause := errors.New("HDIO_DRIVE_CMD failed")

	t.Run("plain error", func(t *testing.T) {
		coll, err := Read(&fakeSource{err: cause})
		assert.Nil(t, coll)
		assert.ErrorIs(t, err, ErrAcquisition)
		assert.ErrorIs(t, err, cause)

		var acqErr *AcquisitionError
		require.ErrorAs(t, err, &acqErr)
		assert.Equal(t, TableUnknown, acqErr.Table, "a plain error does not say which table failed")
		assert.Equal(t, "reading smart tables: HDIO_DRIVE_CMD failed", err.Error())
	})

	t.Run("threshold table", func(t *testing.T) {
		coll, err := Read(&fakeSource{err: &AcquisitionError{Table: TableThresholds, Err: cause}})
		assert.Nil(t, coll)
		require.ErrorIs(t, err, ErrAcquisition)

		var acqErr *AcquisitionError
		require.ErrorAs(t, err, &acqErr)
		assert.Equal(t, TableThresholds, acqErr.Table)
	})

	t.Run("short threshold table", func(t *testing.T) {
		coll, err := Read(&fakeSource{tables: Tables{Data: make([]byte, TableSize), Thresholds: make([]byte, 10)}})
		assert.Nil(t, coll)
		assert.ErrorIs(t, err, ErrAcquisition)
		assert.ErrorIs(t, err, ErrBufferSize)
	})
}

func TestCollectionIsReadOnly(t *testing.T) {
	data := make([]byte, TableSize)
	putAttr(data, 0, 5, 0x0003, 90, 80, [6]byte{1})
	coll, err := Decode(Tables{Data: data, Thresholds: make([]byte, TableSize)})
	require.NoError(t, err)

	attrs := coll.All()
	attrs[0].ID = 42
	assert.Equal(t, uint8(5), coll.At(0).ID)

	a, ok := coll.Find(5)
	assert.True(t, ok)
	assert.Equal(t, uint8(90), a.Current)
	_, ok = coll.Find(42)
	assert.False(t, ok)
}

func TestAttributeJSON(t *testing.T) {
	a := Attribute{ID: 5, Flag: 0x0033, Current: 100, Worst: 100, Threshold: 10, RawValue: 0,
		Category: Prefail, UpdatePolicy: Always, Health: Pass}
	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"flag":51,"value":100,"worst":100,"threshold":10,"raw_value":0,
		"type":"pre-fail","updated":"always","when_failed":"pass"}`, string(out))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "old_age", OldAge.String())
	assert.Equal(t, "Offline", Offline.String())
	assert.Equal(t, "-", NoThreshold.String())
	assert.Equal(t, "Failing Now", FailingNow.String())
	assert.Equal(t, "In The Past", FailedInPast.String())
	assert.Equal(t, "failed-in-past", FailedInPast.Token())
}

func TestSummarize(t *testing.T) {
	data := make([]byte, TableSize)
	thresholds := make([]byte, TableSize)
	putAttr(data, 0, 1, 0x000f, 100, 100, [6]byte{})
	putAttr(data, 1, 5, 0x0033, 5, 5, [6]byte{})
	putAttr(data, 2, 9, 0x0032, 98, 98, [6]byte{})
	putAttr(data, 3, 199, 0x003e, 200, 1, [6]byte{})
	putThresh(thresholds, 0, 1, 6)
	putThresh(thresholds, 1, 5, 10)
	putThresh(thresholds, 2, 199, 5)

	coll, err := Decode(Tables{Data: data, Thresholds: thresholds})
	require.NoError(t, err)

	s := Summarize(coll)
	assert.Equal(t, Summary{Total: 4, Pass: 1, NoThreshold: 1, FailedInPast: 1, FailingNow: 1, Status: StatusCritical}, s)

	assert.Equal(t, StatusHealthy, Summarize(nil).Status)
}

func TestNames(t *testing.T) {
	n := Names{5: "Reallocated_Sector_Ct"}
	assert.Equal(t, "Reallocated_Sector_Ct", n.Name(5))
	assert.Equal(t, "Unknown_Attribute_9", n.Name(9))
	assert.Equal(t, "Unknown_Attribute_9", Names(nil).Name(9))
}

func TestNilCollectionIsEmpty(t *testing.T) {
	var coll *Collection
	assert.Equal(t, 0, coll.Len())
	assert.Nil(t, coll.All())
	_, ok := coll.Find(5)
	assert.False(t, ok)

	// At on a nil collection behaves like indexing an empty one
	assert.PanicsWithError(t, "runtime error: index out of range [0] with length 0", func() {
		coll.At(0)
	})
}
