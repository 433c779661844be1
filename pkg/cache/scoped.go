package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. Servers sharing
// one Redis instance use it to keep their namespaces apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "bilateral:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// CoverKey implements Keyer.
func (k *ScopedKeyer) CoverKey(projectsHash string, opts CoverKeyOpts) string {
	return k.prefix + k.inner.CoverKey(projectsHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(coverHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(coverHash, opts)
}
