package backend

import "sync/atomic"

// Sequencer orders overlapping fetches for one piece of shared state, such
// as the cached analytics snapshot. Without it the last response to arrive
// wins, even when a newer fetch already started; with it a response is
// applied only if no newer fetch began in the meantime.
//
//	gen := seq.Begin()
//	page, err := backend.List[...](ctx, api, path, params)
//	if seq.Stale(gen) {
//	    return // a newer fetch superseded this one
//	}
type Sequencer struct {
	gen atomic.Uint64
}

// Begin marks the start of a fetch and returns its generation.
func (s *Sequencer) Begin() uint64 {
	return s.gen.Add(1)
}

// Stale reports whether a fetch with the given generation has been
// superseded by a later Begin.
func (s *Sequencer) Stale(gen uint64) bool {
	return s.gen.Load() != gen
}
