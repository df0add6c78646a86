// Package store defines the boundary to the shared realtime document store.
//
// The store is a path-addressable mapping of JSON documents with
// last-write-wins semantics: a write replaces the whole document at its path,
// and every subscriber (the writer included) receives the full new value over
// the push channel. There are no ordering guarantees between two writers and
// no multi-path transactions. Backends that support revision-checked updates
// (e.g. JetStream KV Update) could be used to close the lost-update window,
// but the synchronization layer deliberately writes blind to preserve the
// documented last-write-wins behavior.
package store

import "context"

// Well-known document paths.
const (
	PathTeams     = "teams"
	PathGameState = "gamestate"
)

// ChangeFunc receives the full document stored at a path after every change.
type ChangeFunc func(path string, value []byte)

// Unsubscribe stops delivery for a previously registered subscription.
type Unsubscribe func()

// Store is the port to the shared state store.
type Store interface {
	// Read returns the current document at path. ok is false when nothing
	// has ever been written there.
	Read(ctx context.Context, path string) (value []byte, ok bool, err error)

	// Write replaces the document at path, unconditionally overwriting
	// whatever is currently stored.
	Write(ctx context.Context, path string, value []byte) error

	// Subscribe registers fn for every subsequent change to path. Delivery is
	// asynchronous with respect to Write; a writer observes its own write
	// only through its subscription.
	Subscribe(ctx context.Context, path string, fn ChangeFunc) (Unsubscribe, error)

	// Close releases the backend connection.
	Close() error
}
