package mqttsn

import (
	"fmt"

	"github.com/mqtt-sn/broker/packet"
)

// ConnRecord is the serializable snapshot of a Conn persisted by a
// ConnStore (§6 "external interfaces" persistence). It exists separately
// from Conn because Conn's lifetime and identity is owned by Registry's
// in-memory map — ConnStore is an optional side-channel (diagnostics,
// warm-restart, cross-process sharing), never the authoritative copy
// consulted on the hot path.
type ConnRecord struct {
	Endpoint     Endpoint
	Flags        byte
	ProtocolID   uint8
	KeepAlive    uint16
	ClientID     []byte
	State        State
	WillTopic    []byte
	WillMessage  []byte
	WillQoS      int8
	ConnectionID uint32
}

func toRecord(c *Conn) ConnRecord {
	return ConnRecord{
		Endpoint:     c.Endpoint,
		Flags:        c.Flags.Encode(),
		ProtocolID:   c.ProtocolID,
		KeepAlive:    c.KeepAlive,
		ClientID:     append([]byte(nil), c.ClientID...),
		State:        c.State,
		WillTopic:    append([]byte(nil), c.WillTopic...),
		WillMessage:  append([]byte(nil), c.WillMessage...),
		WillQoS:      c.WillQoS,
		ConnectionID: c.ConnectionID,
	}
}

func fromRecord(rec ConnRecord) (*Conn, error) {
	flags, err := packet.DecodeFlags(rec.Flags)
	if err != nil {
		return nil, err
	}
	return &Conn{
		Endpoint:     rec.Endpoint,
		Flags:        flags,
		ProtocolID:   rec.ProtocolID,
		KeepAlive:    rec.KeepAlive,
		ClientID:     rec.ClientID,
		State:        rec.State,
		WillTopic:    rec.WillTopic,
		WillMessage:  rec.WillMessage,
		WillQoS:      rec.WillQoS,
		ConnectionID: rec.ConnectionID,
	}, nil
}

// ConnStore is the persistence interface for connection records (§6).
// Two implementations are provided: CacheStore (in-process,
// patrickmn/go-cache) and RedisStore (github.com/redis/go-redis/v9), so a
// Broker can be pointed at either without changing any other component.
type ConnStore interface {
	Create(rec ConnRecord) error
	Read(ep Endpoint) (ConnRecord, bool, error)
	Update(rec ConnRecord) error
	Remove(ep Endpoint) error
	Iter(fn func(ConnRecord) bool) error
}

// NewStoreFromConfig builds the ConnStore named by CONFIG.Store ("memory",
// "cache", or "redis"), letting cmd/mqtt-sn-broker pick an implementation
// without depending on store_cache.go/store_redis.go directly.
func NewStoreFromConfig() (ConnStore, error) {
	switch CONFIG.Store {
	case "", "memory", "cache":
		return NewCacheStore(), nil
	case "redis":
		if CONFIG.Redis == "" {
			return nil, fmt.Errorf("mqtt-sn: Store=redis requires Redis address in config")
		}
		return NewRedisStore(CONFIG.Redis), nil
	default:
		return nil, fmt.Errorf("mqtt-sn: unknown Store kind %q", CONFIG.Store)
	}
}
