package mqttsn

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CacheStore is the default ConnStore, backed by an in-process
// patrickmn/go-cache instance. It never expires entries on its own —
// lifecycle is governed entirely by C3/C5 — but reuses go-cache for its
// sharded-lock map and Items() snapshot iteration rather than hand-rolling
// another one.
type CacheStore struct {
	c *gocache.Cache
}

func NewCacheStore() *CacheStore {
	return &CacheStore{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *CacheStore) Create(rec ConnRecord) error {
	s.c.Set(rec.Endpoint.String(), rec, gocache.NoExpiration)
	return nil
}

func (s *CacheStore) Read(ep Endpoint) (ConnRecord, bool, error) {
	v, ok := s.c.Get(ep.String())
	if !ok {
		return ConnRecord{}, false, nil
	}
	rec, ok := v.(ConnRecord)
	if !ok {
		return ConnRecord{}, false, fmt.Errorf("mqtt-sn: cache store: unexpected value type for %s", ep)
	}
	return rec, true, nil
}

func (s *CacheStore) Update(rec ConnRecord) error {
	s.c.Set(rec.Endpoint.String(), rec, gocache.NoExpiration)
	return nil
}

func (s *CacheStore) Remove(ep Endpoint) error {
	s.c.Delete(ep.String())
	return nil
}

func (s *CacheStore) Iter(fn func(ConnRecord) bool) error {
	for _, item := range s.c.Items() {
		rec, ok := item.Object.(ConnRecord)
		if !ok {
			continue
		}
		if !fn(rec) {
			break
		}
	}
	return nil
}
