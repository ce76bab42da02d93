package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handleWillMsg implements §4.6's WILLMSG row: completes WillSetup.
func handleWillMsg(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateWillSetup {
		return errOutOfState(ep, packet.WILLMSG, c)
	}
	pkt := p.(*packet.WillMsg)
	c.WillMessage = append([]byte(nil), pkt.Message...)
	b.registry.SetState(c, StateActive)
	b.send(ep, &packet.ConnAck{ReturnCode: packet.RCAccepted.Code})
	return nil
}
