package mqttsn

// Listen mirrors the teacher's options.go Listen struct: a named
// listener's address plus optional TLS material (here, DTLS — see §6
// "Default DTLS port: 61000").
type Listen struct {
	URL      string `json:"url"`
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

// config is the broker's static configuration, loaded from JSON via
// cmd/mqtt-sn-broker's -config flag, following the teacher's CONFIG
// pattern (options.go).
type config struct {
	UDP   Listen `json:"UDP"`
	DTLS  Listen `json:"DTLS"`
	HTTP  Listen `json:"HTTP"`
	Store string `json:"Store"` // "memory" (default), "cache", or "redis"
	Redis string `json:"Redis"` // redis address, used when Store == "redis"

	WheelTickMillis int `json:"WheelTickMillis"`

	// GatewayAdvertise enables the peripheral internal/gwadvert multicast
	// ADVERTISE/GWINFO responder (§6 gateway discovery, explicitly outside
	// the core). Off by default since it is not part of the broker's
	// functional contract.
	GatewayAdvertise bool  `json:"GatewayAdvertise"`
	GatewayID        uint8 `json:"GatewayID"`
}

// CONFIG is the process-wide configuration, following the teacher's
// package-level CONFIG variable.
var CONFIG = &config{
	UDP:             Listen{URL: "0.0.0.0:60000"},
	HTTP:            Listen{URL: "127.0.0.1:60080"},
	Store:           "memory",
	WheelTickMillis: 100,
	GatewayID:       1,
}

// Options configure a Broker at construction time (functional-options
// pattern, per the teacher's Options/Option).
type Options struct {
	Store ConnStore
}

type Option func(*Options)

func newOptions(opts ...Option) Options {
	options := Options{Store: NewCacheStore()}
	for _, o := range opts {
		o(&options)
	}
	return options
}

// WithStore overrides the default in-memory ConnStore.
func WithStore(store ConnStore) Option {
	return func(o *Options) { o.Store = store }
}
