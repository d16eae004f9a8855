package fuelabi

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

// CodecOption configures a Codec.
type CodecOption func(*codecConfig)

// DefaultMaxDynamicLength bounds the element count a decoded descriptor may claim.
const DefaultMaxDynamicLength = 1 << 20

// resolverConfig holds configuration for type resolution.
type resolverConfig struct {
	skip SkipFunc
}

// defaultResolverConfig returns the default resolver configuration.
func defaultResolverConfig() *resolverConfig {
	return &resolverConfig{
		skip: DefaultSkipFunc,
	}
}

// codecConfig holds configuration for encoding and decoding.
type codecConfig struct {
	baseOffset       uint64
	maxDynamicLength int
}

// defaultCodecConfig returns the default codec configuration.
func defaultCodecConfig() *codecConfig {
	return &codecConfig{
		baseOffset:       0,
		maxDynamicLength: DefaultMaxDynamicLength,
	}
}

// WithSkipTypes hides additional compiler-internal type strings from the
// resolved graph, on top of the current skip predicate.
func WithSkipTypes(types ...string) ResolverOption {
	return func(c *resolverConfig) {
		extra := append([]string(nil), types...)
		c.skip = skipTypesFunc(c.skip, extra)
	}
}

// WithSkipFunc replaces the skip predicate entirely.
// A nil predicate skips nothing.
func WithSkipFunc(fn SkipFunc) ResolverOption {
	return func(c *resolverConfig) {
		if fn == nil {
			fn = func(string) bool { return false }
		}
		c.skip = fn
	}
}

// WithBaseOffset sets the address the encoded buffer will be placed at.
// Descriptor pointers are emitted relative to it and decoded against it.
// Default is 0.
func WithBaseOffset(offset uint64) CodecOption {
	return func(c *codecConfig) {
		c.baseOffset = offset
	}
}

// WithMaxDynamicLength limits the element count accepted from a decoded
// descriptor. Non-positive values restore DefaultMaxDynamicLength.
func WithMaxDynamicLength(max int) CodecOption {
	return func(c *codecConfig) {
		if max <= 0 {
			max = DefaultMaxDynamicLength
		}
		c.maxDynamicLength = max
	}
}
