package cleaner

// NoopCleaner passes speech markup through unchanged. It is used when the
// raw transcript markup is wanted, for example to inspect what the
// canonicalizer would receive.
type NoopCleaner struct{}

// NewNoop creates a new no-op cleaner.
func NewNoop() *NoopCleaner {
	return &NoopCleaner{}
}

// Clean returns markup unchanged.
func (c *NoopCleaner) Clean(_, markup string) (string, error) {
	return markup, nil
}

// Name returns the cleaner type.
func (c *NoopCleaner) Name() string {
	return "noop"
}
