package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// tenants can share one backend.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PackKey generates a prefixed packing key.
func (k *ScopedKeyer) PackKey(inputHash string, opts PackKeyOpts) string {
	return k.prefix + k.inner.PackKey(inputHash, opts)
}

// ChartKey generates a prefixed chart key.
func (k *ScopedKeyer) ChartKey(kind, inputHash string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(kind, inputHash, opts)
}
