package rewrite

// Result contains metrics about rewrites applied to a diagram.
//
// Result is returned by every pass in this package to provide visibility
// into what changed. A zero Result means the pass was a no-op, which the
// fixpoint drivers use as their termination condition.
type Result struct {
	// JunctionsAdded is the number of generator boxes replaced by junctions
	// during [AddJunctions].
	JunctionsAdded int `json:"junctions_added"`

	// JunctionsExpanded is the number of junction boxes expanded back into
	// generators during [RemoveJunctions].
	JunctionsExpanded int `json:"junctions_expanded"`

	// CopiesMerged is the number of duplicate atomic boxes eliminated by
	// [NormalizeCopy]. Each merge removes one box and pushes a Copy past it.
	CopiesMerged int `json:"copies_merged"`

	// DeadBoxesRemoved is the number of boxes eliminated by
	// [NormalizeDelete], including Delete generators themselves.
	DeadBoxesRemoved int `json:"dead_boxes_removed"`
}

// Zero reports whether the pass changed nothing.
func (r Result) Zero() bool {
	return r == Result{}
}

// Merge accumulates another pass's metrics into r.
func (r *Result) Merge(o Result) {
	r.add(o)
}

func (r *Result) add(o Result) {
	r.JunctionsAdded += o.JunctionsAdded
	r.JunctionsExpanded += o.JunctionsExpanded
	r.CopiesMerged += o.CopiesMerged
	r.DeadBoxesRemoved += o.DeadBoxesRemoved
}
