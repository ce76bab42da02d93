package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handleConnect implements §4.6's CONNECT row: a connection is created or
// replaced regardless of prior state, and its timers are reset.
func handleConnect(b *Broker, ep Endpoint, _ *Conn, p packet.Packet) error {
	pkt := p.(*packet.Connect)

	c := b.registry.CreateOrReplace(ep)
	c.Flags = pkt.Flags
	c.ProtocolID = pkt.ProtocolID
	c.KeepAlive = pkt.Duration
	c.ClientID = append([]byte(nil), pkt.ClientID...)
	b.keepalive.Arm(ep, pkt.Duration)

	if !pkt.Flags.Will {
		b.registry.SetState(c, StateActive)
		b.send(ep, &packet.ConnAck{ReturnCode: packet.RCAccepted.Code})
		return nil
	}
	b.registry.SetState(c, StateWillSetup)
	b.send(ep, &packet.WillTopicReq{})
	return nil
}
