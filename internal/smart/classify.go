package smart

// CategoryOf tests flag bit 0
func CategoryOf(flag uint16) Category {
	if flag&FlagPrefail != 0 {
		return Prefail
	}
	return OldAge
}

// UpdatePolicyOf tests flag bit 1
func UpdatePolicyOf(flag uint16) UpdatePolicy {
	if flag&FlagAlwaysUpdated != 0 {
		return Always
	}
	return Offline
}

// Classify derives the health state of an attribute. Rules are checked
// in order and the first match wins:
//
//  1. threshold 0 means there is no failure boundary
//  2. a pre-fail attribute at or below threshold is failing now
//  3. any attribute whose worst value is at or below threshold failed in the past
//  4. everything else passes
//
// Only rule 2 is gated on the pre-fail bit. An old-age attribute with a
// low worst value still reports FailedInPast.
func Classify(current, worst, threshold uint8, flag uint16) HealthState {
	if threshold == 0 {
		return NoThreshold
	}
	if flag&FlagPrefail != 0 && current <= threshold {
		return FailingNow
	}
	if worst <= threshold {
		return FailedInPast
	}
	return Pass
}
