// Package mqttsn implements an MQTT-SN 1.2 gateway/broker over UDP: codec
// (package packet), filter index (internal/topic), connection registry,
// retransmit and keep-alive timing wheels, the PUBLISH pipeline and the
// per-PDU handlers that tie them together.
package mqttsn

import (
	"fmt"
	"net"
)

// Endpoint is the (IPv4, port) identity of a connection (§3). It is
// comparable and usable as a map key, which is all the registry, the
// filter index and the timing wheels need from it.
type Endpoint struct {
	IP   [4]byte
	Port uint16
}

// EndpointFromUDPAddr converts a net.UDPAddr observed on an ingress
// datagram into an Endpoint. Only IPv4 is supported; see §3 "IPv6 may be
// added without altering the model" — EndpointFromUDPAddr is the single
// place that would change.
func EndpointFromUDPAddr(addr *net.UDPAddr) (Endpoint, error) {
	ip4 := addr.IP.To4()
	if ip4 == nil {
		return Endpoint{}, fmt.Errorf("mqtt-sn: endpoint %s is not IPv4", addr)
	}
	var e Endpoint
	copy(e.IP[:], ip4)
	e.Port = uint16(addr.Port)
	return e, nil
}

func (e Endpoint) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(e.IP[0], e.IP[1], e.IP[2], e.IP[3]), Port: int(e.Port)}
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", e.IP[0], e.IP[1], e.IP[2], e.IP[3], e.Port)
}

// State is the lifecycle state of a connection (§3).
type State int

const (
	StateDisconnected State = iota
	StateWillSetup
	StateActive
	StateAsleep
	StateAwake
	StateLost
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateWillSetup:
		return "will-setup"
	case StateActive:
		return "active"
	case StateAsleep:
		return "asleep"
	case StateAwake:
		return "awake"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// egressFrame pairs an encoded datagram with the endpoint it must be sent
// to. It is the single currency of the egress channel (§5).
type egressFrame struct {
	to   Endpoint
	data []byte
}
