package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handlePingReq implements §4.6's PINGREQ row. A sleeping client wakes
// directly back to Active; this implementation does not buffer messages
// for sleeping connections, so there is nothing further to flush on
// wakeup beyond the liveness refresh.
func handlePingReq(b *Broker, ep Endpoint, c *Conn, _ packet.Packet) error {
	if c == nil || (c.State != StateActive && c.State != StateAsleep) {
		return errOutOfState(ep, packet.PINGREQ, c)
	}
	if c.State == StateAsleep {
		b.registry.SetState(c, StateActive)
	}
	b.keepalive.Touch(ep)
	b.send(ep, &packet.PingResp{})
	return nil
}
