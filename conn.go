package mqttsn

import (
	"log"
	"sync"

	"github.com/mqtt-sn/broker/packet"
)

// Conn is a connection record (§3): everything the broker remembers about
// one endpoint between datagrams. Unlike the teacher's conn, this is not
// backed by a net.Conn — UDP has no per-client socket, so a Conn is a
// plain record mutated under the registry's lock.
type Conn struct {
	Endpoint    Endpoint
	Flags       packet.Flags
	ProtocolID  uint8
	KeepAlive   uint16 // seconds
	ClientID    []byte
	State       State
	WillTopic   []byte
	WillMessage []byte
	WillQoS     int8

	// ConnectionID is an advisory, broker-local identifier exposed for
	// diagnostics/admin use; it has no wire meaning.
	ConnectionID uint32

	// MsgID is the message-id this broker last used when it originated a
	// QoS-1/2 PUBLISH to this endpoint (e.g. fanning out someone else's
	// message); it is incremented before each such send.
	MsgID uint16
}

// Registry is the process-wide connection table (§3). "A connection is
// present in the registry iff its state is not Disconnected."
//
// store, if set, mirrors every create/state-change/remove to a ConnStore
// (§6). It is a best-effort side-channel: store errors are logged, never
// returned, since the in-memory map is always the authoritative copy
// consulted on the hot path.
type Registry struct {
	mu      sync.RWMutex
	byAddr  map[Endpoint]*Conn
	nextCID uint32
	store   ConnStore
}

func NewRegistry(store ConnStore) *Registry {
	return &Registry{byAddr: make(map[Endpoint]*Conn), store: store}
}

// Get returns the connection record for ep, if any.
func (r *Registry) Get(ep Endpoint) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byAddr[ep]
	return c, ok
}

// CreateOrReplace installs a fresh Conn for ep, discarding any prior
// record (CONNECT always creates/replaces, §4.6).
func (r *Registry) CreateOrReplace(ep Endpoint) *Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextCID++
	c := &Conn{Endpoint: ep, State: StateDisconnected, ConnectionID: r.nextCID}
	r.byAddr[ep] = c
	r.mirrorCreate(c)
	return c
}

// Remove deletes ep's record, called on DISCONNECT or Lost (§3, §4.4).
func (r *Registry) Remove(ep Endpoint) {
	r.mu.Lock()
	delete(r.byAddr, ep)
	r.mu.Unlock()
	if r.store != nil {
		if err := r.store.Remove(ep); err != nil {
			log.Printf("mqtt-sn: conn store: remove %s: %v", ep, err)
		}
	}
}

// SetState transitions c.State to s under the registry lock.
func (r *Registry) SetState(c *Conn, s State) {
	r.mu.Lock()
	c.State = s
	r.mu.Unlock()
	r.mirrorUpdate(c)
}

func (r *Registry) mirrorCreate(c *Conn) {
	if r.store == nil {
		return
	}
	if err := r.store.Create(toRecord(c)); err != nil {
		log.Printf("mqtt-sn: conn store: create %s: %v", c.Endpoint, err)
	}
}

// MirrorUpdate persists c's current fields to the backing ConnStore, if
// any. Handlers call this after mutating fields the store should reflect
// (will topic/message, keep-alive duration) that SetState doesn't cover.
func (r *Registry) MirrorUpdate(c *Conn) {
	r.mirrorUpdate(c)
}

func (r *Registry) mirrorUpdate(c *Conn) {
	if r.store == nil {
		return
	}
	if err := r.store.Update(toRecord(c)); err != nil {
		log.Printf("mqtt-sn: conn store: update %s: %v", c.Endpoint, err)
	}
}

// Range calls f for every connection currently registered. f must not
// call back into the Registry.
func (r *Registry) Range(f func(*Conn)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.byAddr {
		f(c)
	}
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byAddr)
}
