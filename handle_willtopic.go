package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handleWillTopic implements §4.6's WILLTOPIC row, plus the §9 open
// question's resolution: an empty-body WILLTOPIC clears the will instead
// of advancing WillSetup (this also covers DISCONNECT-less will removal
// via WILLTOPICUPD's empty form, handled separately).
func handleWillTopic(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateWillSetup {
		return errOutOfState(ep, packet.WILLTOPIC, c)
	}
	pkt := p.(*packet.WillTopic)
	if pkt.Empty {
		c.WillTopic = nil
		c.WillMessage = nil
		b.registry.SetState(c, StateActive)
		b.send(ep, &packet.ConnAck{ReturnCode: packet.RCAccepted.Code})
		return nil
	}
	c.WillTopic = append([]byte(nil), pkt.Topic...)
	c.WillQoS = pkt.Flags.QoS
	b.registry.MirrorUpdate(c)
	b.send(ep, &packet.WillMsgReq{})
	return nil
}
