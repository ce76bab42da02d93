package mqttsn

import (
	"github.com/mqtt-sn/broker/internal/topic"
	"github.com/mqtt-sn/broker/packet"
)

// handleDisconnect implements §4.6's DISCONNECT rows: with no duration,
// the connection and all its index/timer entries are removed; with a
// duration, the connection goes Asleep and its liveness timer is
// re-armed at the sleep duration.
func handleDisconnect(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.DISCONNECT, c)
	}
	pkt := p.(*packet.Disconnect)

	if !pkt.HasDuration {
		b.keepalive.Cancel(ep)
		b.index.RemoveEndpoint(topic.Endpoint(ep))
		b.registry.Remove(ep)
		b.send(ep, &packet.Disconnect{})
		return nil
	}

	b.registry.SetState(c, StateAsleep)
	b.keepalive.Arm(ep, pkt.Duration)
	b.send(ep, &packet.Disconnect{})
	return nil
}
