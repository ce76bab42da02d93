// Package topic implements the name<->id map and the concrete/wildcard
// filter index (C2). The wildcard matching rules and the node/add/remove
// shape follow the teacher's topic trie, generalized from a pure name
// trie to an id-addressed subscription index.
package topic

import (
	"errors"
	"strings"
	"sync"
)

var (
	errNotSubscribed       = errors.New("mqtt-sn: endpoint not subscribed")
	errTopicSpaceExhausted = errors.New("mqtt-sn: topic id space exhausted")
)

// Endpoint identifies a subscriber. It mirrors mqttsn.Endpoint's shape
// without importing the root package, keeping this package leaf-level.
type Endpoint struct {
	IP   [4]byte
	Port uint16
}

type sub struct {
	ep  Endpoint
	qos int8
}

// Index is the process-wide filter/subscription index (§3 "Subscription
// set"). The zero value is not usable; construct with New.
type Index struct {
	mu sync.RWMutex

	nameToID map[string]uint16
	idToName map[uint16]string
	nextID   uint16

	// concrete holds subscriptions keyed by topic-id, for both normal and
	// predefined ids.
	concrete map[uint16]map[Endpoint]int8

	// filters holds subscriptions against a raw filter string (no
	// wildcards, or containing + / #), keyed by the literal filter text.
	filters map[string]map[Endpoint]int8

	// resolved memoises, for a wildcard filter, which topic-ids it has
	// matched so far, so a later publish on the same id skips
	// re-traversal (§4.2 "wildcard-topics cache").
	resolved map[string]map[uint16]struct{}
}

// New returns an empty Index with the id counter starting at 1 (0 is
// reserved, §3).
func New() *Index {
	return &Index{
		nameToID: make(map[string]uint16),
		idToName: make(map[uint16]string),
		nextID:   1,
		concrete: make(map[uint16]map[Endpoint]int8),
		filters:  make(map[string]map[Endpoint]int8),
		resolved: make(map[string]map[uint16]struct{}),
	}
}

// RegisterName is idempotent: it returns the existing id for name if
// already known, otherwise allocates the next id (§4.2).
func (ix *Index) RegisterName(name string) (uint16, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if id, ok := ix.nameToID[name]; ok {
		return id, nil
	}
	if ix.nextID == 0 {
		return 0, errTopicSpaceExhausted
	}
	id := ix.nextID
	ix.nextID++
	ix.nameToID[name] = id
	ix.idToName[id] = name
	return id, nil
}

// LookupID returns the topic-id registered for name, if any.
func (ix *Index) LookupID(name string) (uint16, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	id, ok := ix.nameToID[name]
	return id, ok
}

// LookupName returns the name registered to id, if any.
func (ix *Index) LookupName(id uint16) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	name, ok := ix.idToName[id]
	return name, ok
}

// isWildcard reports whether filter contains a + or # segment.
func isWildcard(filter string) bool {
	return strings.Contains(filter, "+") || strings.Contains(filter, "#")
}

// IsWildcard reports whether filter contains a + or # segment. Exported
// for callers (e.g. the SUBSCRIBE handler) that need to pick a reply
// topic-id of 0 for wildcard subscriptions before calling SubscribeFilter.
func IsWildcard(filter string) bool {
	return isWildcard(filter)
}

// SubscribeID adds (endpoint, qos) to the fan-out list for topic-id id,
// replacing any previously recorded QoS for the same endpoint (§4.2).
func (ix *Index) SubscribeID(id uint16, ep Endpoint, qos int8) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	m, ok := ix.concrete[id]
	if !ok {
		m = make(map[Endpoint]int8)
		ix.concrete[id] = m
	}
	m[ep] = qos
}

// SubscribeFilter adds (endpoint, qos) against a topic-name filter, which
// may be a concrete name or contain +/# wildcards.
func (ix *Index) SubscribeFilter(filter string, ep Endpoint, qos int8) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	m, ok := ix.filters[filter]
	if !ok {
		m = make(map[Endpoint]int8)
		ix.filters[filter] = m
	}
	m[ep] = qos
	if isWildcard(filter) {
		ix.invalidateLocked(filter)
	}
}

// UnsubscribeID removes ep from topic-id id's fan-out list. A missing
// entry is reported but is not treated as fatal by callers (§4.2).
func (ix *Index) UnsubscribeID(id uint16, ep Endpoint) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	m, ok := ix.concrete[id]
	if !ok {
		return errNotSubscribed
	}
	if _, ok := m[ep]; !ok {
		return errNotSubscribed
	}
	delete(m, ep)
	return nil
}

// UnsubscribeFilter removes ep from filter's subscriber set.
func (ix *Index) UnsubscribeFilter(filter string, ep Endpoint) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	m, ok := ix.filters[filter]
	if !ok {
		return errNotSubscribed
	}
	if _, ok := m[ep]; !ok {
		return errNotSubscribed
	}
	delete(m, ep)
	if isWildcard(filter) {
		ix.invalidateLocked(filter)
	}
	return nil
}

// invalidateLocked clears memoised matches for filter. Caller holds mu.
func (ix *Index) invalidateLocked(filter string) {
	delete(ix.resolved, filter)
}

// EndpointsForTopicID returns the current fan-out list for a publish
// carrying topic-id id (§4.2). Concrete subscribers only — callers that
// need wildcard-filter matches too should use EndpointsForPublishID.
func (ix *Index) EndpointsForTopicID(id uint16) []EndpointQoS {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return collect(ix.concrete[id])
}

// EndpointsForPublishID is the fan-out entry point a PUBLISH handler
// should use: a wire PUBLISH carries only a topic-id, never a name, so
// wildcard filters (which are indexed by name) can only be reached by
// reverse-resolving the id back to its registered name (§4.2). Ids with
// no registered name (e.g. predefined ids) fall back to concrete-only
// matching, since no name exists for a wildcard to match against.
func (ix *Index) EndpointsForPublishID(id uint16) []EndpointQoS {
	ix.mu.RLock()
	name, hasName := ix.idToName[id]
	ix.mu.RUnlock()
	if !hasName {
		return ix.EndpointsForTopicID(id)
	}
	return ix.EndpointsForTopicName(name)
}

// EndpointQoS pairs a subscriber with the QoS it subscribed at.
type EndpointQoS struct {
	Endpoint Endpoint
	QoS      int8
}

func collect(m map[Endpoint]int8) []EndpointQoS {
	if len(m) == 0 {
		return nil
	}
	out := make([]EndpointQoS, 0, len(m))
	for ep, qos := range m {
		out = append(out, EndpointQoS{Endpoint: ep, QoS: qos})
	}
	return out
}

// EndpointsForTopicName resolves name through the name->id map (if
// registered), then adds any concrete or wildcard filter matches (§4.2).
func (ix *Index) EndpointsForTopicName(name string) []EndpointQoS {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var out []EndpointQoS
	seen := make(map[Endpoint]bool)
	add := func(list []EndpointQoS) {
		for _, eq := range list {
			if seen[eq.Endpoint] {
				continue
			}
			seen[eq.Endpoint] = true
			out = append(out, eq)
		}
	}

	if id, ok := ix.nameToID[name]; ok {
		add(collect(ix.concrete[id]))
	}
	if m, ok := ix.filters[name]; ok {
		add(collect(m))
	}

	id, hasID := ix.nameToID[name]
	for filter, m := range ix.filters {
		if !isWildcard(filter) {
			continue
		}
		matched := false
		if hasID {
			if cache, ok := ix.resolved[filter]; ok {
				_, matched = cache[id]
			} else {
				ix.resolved[filter] = make(map[uint16]struct{})
			}
		}
		if !matched {
			matched = matchFilter(filter, name)
			if matched && hasID {
				ix.resolved[filter][id] = struct{}{}
			}
		}
		if matched {
			add(collect(m))
		}
	}
	return out
}

// RemoveEndpoint deletes ep from every subscription set it appears in
// (§4.2, called on DISCONNECT).
func (ix *Index) RemoveEndpoint(ep Endpoint) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, m := range ix.concrete {
		delete(m, ep)
	}
	for _, m := range ix.filters {
		delete(m, ep)
	}
}

// matchFilter implements the §4.2 wildcard rules: + matches exactly one
// segment, # matches one-or-more trailing segments and must be final,
// and a name's first segment starting with $ is never matched by a
// filter whose first segment is a wildcard.
func matchFilter(filter, name string) bool {
	if !isWildcard(filter) {
		return filter == name
	}
	fSegs := strings.Split(filter, "/")
	nSegs := strings.Split(name, "/")

	if len(nSegs) > 0 && strings.HasPrefix(nSegs[0], "$") && len(fSegs) > 0 && (fSegs[0] == "+" || fSegs[0] == "#") {
		return false
	}

	i := 0
	for i < len(fSegs) {
		seg := fSegs[i]
		if seg == "#" {
			return i == len(fSegs)-1 && i < len(nSegs)
		}
		if i >= len(nSegs) {
			return false
		}
		if seg != "+" && seg != nSegs[i] {
			return false
		}
		i++
	}
	return i == len(nSegs)
}
