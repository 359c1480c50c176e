package render

import "time"

// Options are the renderer's tunables. Like the layout tuning they load
// from configuration rather than living at call sites.
type Options struct {
	// PageSize is how many rows one fetch requests.
	PageSize int `koanf:"page_size"`

	// LookaheadRows is how many loaded rows to keep buffered beyond
	// the visible window; it widens the fetch margin so the buffer is
	// filled before the selection reaches it.
	LookaheadRows int `koanf:"lookahead_rows"`

	// FetchThresholdRows triggers the next page when the selection
	// comes within this many rows (plus the lookahead) of the end of
	// the loaded set.
	FetchThresholdRows int `koanf:"fetch_threshold_rows"`

	// ResizeDebounce delays override persistence after a column
	// resize; further resizes within the window reschedule it.
	ResizeDebounce time.Duration `koanf:"resize_debounce"`

	// TabAdvanceDelay sequences the editor reopen on Tab.
	TabAdvanceDelay time.Duration `koanf:"tab_advance_delay"`
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		PageSize:           100,
		LookaheadRows:      10,
		FetchThresholdRows: 20,
		ResizeDebounce:     500 * time.Millisecond,
		TabAdvanceDelay:    50 * time.Millisecond,
	}
}
