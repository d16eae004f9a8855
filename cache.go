package fuelabi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of programs the package-level cache keeps.
const DefaultCacheSize = 128

// Cache memoizes resolved programs by the Keccak-256 hash of their JSON
// description. Concurrent loads of the same description share a single
// resolution; loads of different descriptions proceed independently.
// Failed resolutions are not cached.
type Cache struct {
	programs *lru.Cache[common.Hash, *Program]
	group    singleflight.Group
	resolver *Resolver
}

// NewCache creates a cache holding up to size programs, resolved with opts.
func NewCache(size int, opts ...ResolverOption) (*Cache, error) {
	programs, err := lru.New[common.Hash, *Program](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		programs: programs,
		resolver: NewResolver(opts...),
	}, nil
}

var defaultCache = func() *Cache {
	c, err := NewCache(DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// LoadProgram resolves a JSON interface description through the
// package-level cache.
func LoadProgram(data []byte) (*Program, error) {
	return defaultCache.Load(data)
}

// Load returns the program for a JSON interface description, resolving
// it on first use.
func (c *Cache) Load(data []byte) (*Program, error) {
	key := crypto.Keccak256Hash(data)
	if prog, ok := c.programs.Get(key); ok {
		Logger().Debug("program cache hit", zap.Stringer("key", key))
		return prog, nil
	}

	v, err, shared := c.group.Do(key.Hex(), func() (any, error) {
		if prog, ok := c.programs.Get(key); ok {
			return prog, nil
		}
		doc, err := ParseDocument(data)
		if err != nil {
			return nil, err
		}
		prog, err := c.resolver.Resolve(doc)
		if err != nil {
			return nil, err
		}
		c.programs.Add(key, prog)
		return prog, nil
	})
	if err != nil {
		return nil, err
	}

	Logger().Debug("program cache miss", zap.Stringer("key", key), zap.Bool("shared", shared))
	return v.(*Program), nil
}

// Contains reports whether the description is cached, without touching
// its recency.
func (c *Cache) Contains(data []byte) bool {
	return c.programs.Contains(crypto.Keccak256Hash(data))
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	return c.programs.Len()
}

// Purge drops every cached program.
func (c *Cache) Purge() {
	c.programs.Purge()
}
