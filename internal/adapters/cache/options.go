package cache

type options struct {
	maxEntries int
}

// Option applies a configuration option to a results cache.
type Option func(*options)

// WithMaxEntries sets how many results are kept. Zero or a negative value
// disables caching.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}
