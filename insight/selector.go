package insight

import "time"

// SelectNewActions partitions the action history against the last completed
// checkpoint. A nil checkpoint means first run: every action is new. Otherwise
// only actions recorded strictly after the checkpoint are returned, in input
// order. An empty result is not an error; the caller distinguishes "nothing
// new since last check" from "no actions at all" using the checkpoint itself.
func SelectNewActions(all []Action, lastCheckpoint *time.Time) []Action {
	if lastCheckpoint == nil {
		out := make([]Action, len(all))
		copy(out, all)
		return out
	}
	var out []Action
	for _, a := range all {
		if a.Timestamp.After(*lastCheckpoint) {
			out = append(out, a)
		}
	}
	return out
}
