package chainspec

import "time"

// GenesisTime computes the network-wide genesis timestamp as a millisecond
// epoch value, offset into the future from now. It is computed exactly once
// per provision invocation and stamped into the shared chain specification,
// so every host in the batch agrees on the same start time.
func GenesisTime(now time.Time, offset time.Duration) int64 {
	return now.Add(offset).UnixNano() / int64(time.Millisecond)
}
