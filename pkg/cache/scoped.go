package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts get
// separate cache namespaces. The server uses this to isolate per-project
// entries in a shared Redis instance.
//
// For example:
//
//	// Keys scoped to one project
//	projKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:"+id+":")
//
//	// Shared keys for anonymous pipeline runs
//	keyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, prepending prefix to every key it produces.
// A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NetworkKey generates a prefixed key for a generated lattice.
func (k *ScopedKeyer) NetworkKey(opts NetworkKeyOpts) string {
	return k.prefix + k.inner.NetworkKey(opts)
}

// ReductionKey generates a prefixed key for a reduced network.
func (k *ScopedKeyer) ReductionKey(networkHash string, opts ReductionKeyOpts) string {
	return k.prefix + k.inner.ReductionKey(networkHash, opts)
}

// ArtifactKey generates a prefixed key for an artifact.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)

