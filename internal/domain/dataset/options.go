package dataset

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithPath sets the dataset file path.
func WithPath(path string) Option {
	return func(r *Reader) {
		if path != "" {
			r.path = path
		}
	}
}
