package port

import "context"

// ExampleSource enumerates the labeled training corpus: category names, the
// example identifiers within a category, and a way to resolve an identifier
// to a local clip file. Implementations skip hidden/system entries and
// return categories in a stable order.
type ExampleSource interface {
	Categories(ctx context.Context) ([]string, error)
	Examples(ctx context.Context, category string) ([]string, error)

	// Fetch resolves an example to a local video path. The returned cleanup
	// function releases any temporary storage and is safe to call on every
	// exit path.
	Fetch(ctx context.Context, category, example string) (path string, cleanup func(), err error)
}
