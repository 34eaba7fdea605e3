package smart

// ResolveThreshold returns the threshold byte recorded for id in the
// threshold table, or 0 when no slot carries that id. Slots are scanned
// in order and the first match wins.
//
// The table must be TableSize bytes; Decode checks this before calling.
func ResolveThreshold(id uint8, thresholds []byte) uint8 {
	for i := 0; i < RecordCount; i++ {
		s := slot(thresholds, i)
		if s[0] == id {
			return s[1]
		}
	}
	return 0
}
