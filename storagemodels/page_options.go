package storagemodels

// Unbounded asks the backend to choose the value itself.
const Unbounded = -1

// PageOptions configures how a backend cursor batches a query
type PageOptions struct {
	PageSizeHint     int32 // Items per backend page (default: -1, backend decides)
	MaxConcurrency   int   // Parallel partition fetches (default: -1, backend decides)
	MaxBufferedItems int   // Items buffered ahead of the caller (default: -1, backend decides)
	Diagnostics      bool  // Collect request cost and a trace per page (default: false)
}

// PageOption is a functional option for configuring query pagination
type PageOption func(*PageOptions)

// DefaultPageOptions returns default pagination options
func DefaultPageOptions() PageOptions {
	return PageOptions{
		PageSizeHint:     Unbounded,
		MaxConcurrency:   Unbounded,
		MaxBufferedItems: Unbounded,
	}
}

// ApplyPageOptions applies opts on top of base
func ApplyPageOptions(base PageOptions, opts ...PageOption) PageOptions {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// WithPageSizeHint sets the preferred number of items per page
func WithPageSizeHint(size int32) PageOption {
	return func(opts *PageOptions) {
		opts.PageSizeHint = size
	}
}

// WithMaxConcurrency sets the maximum concurrent partition fetches
func WithMaxConcurrency(concurrency int) PageOption {
	return func(opts *PageOptions) {
		opts.MaxConcurrency = concurrency
	}
}

// WithMaxBufferedItems sets how many items the backend may buffer
func WithMaxBufferedItems(items int) PageOption {
	return func(opts *PageOptions) {
		opts.MaxBufferedItems = items
	}
}

// WithDiagnostics enables per-page request cost and trace collection
func WithDiagnostics() PageOption {
	return func(opts *PageOptions) {
		opts.Diagnostics = true
	}
}
