// Package cleaner canonicalizes the markup of transcript speech blocks.
// Raw blocks are rewritten into a small, closed tag vocabulary with absolute
// links so they can be stored and re-processed safely.
package cleaner

// Cleaner rewrites one block of raw markup into canonical markup.
type Cleaner interface {
	// Clean canonicalizes markup. Relative links are resolved against baseURL.
	// Implementations must be idempotent: Clean of Clean output is a no-op.
	Clean(baseURL, markup string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
