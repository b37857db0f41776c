// Package roster computes membership departures by set difference: the
// remote member list is treated as authoritative-complete, so any locally
// active member missing from it has left the chat, no explicit leave event
// required.
package roster

// Diff returns the IDs present in active but absent from remote, in the
// order they appear in active. O(len(active)+len(remote)).
//
// An empty remote roster reports every active member as departed (full
// turnover); callers that cannot trust the remote fetch to be complete
// must skip departure marking instead of calling Diff.
func Diff(active, remote []int64) []int64 {
	if len(active) == 0 {
		return nil
	}

	present := make(map[int64]struct{}, len(remote))
	for _, id := range remote {
		present[id] = struct{}{}
	}

	var departed []int64
	for _, id := range active {
		if _, ok := present[id]; !ok {
			departed = append(departed, id)
		}
	}

	return departed
}
