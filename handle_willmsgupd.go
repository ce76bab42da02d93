package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handleWillMsgUpd implements §4.6's WILLMSGUPD row.
func handleWillMsgUpd(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.WILLMSGUPD, c)
	}
	pkt := p.(*packet.WillMsgUpd)
	c.WillMessage = append([]byte(nil), pkt.Message...)
	b.registry.MirrorUpdate(c)
	b.send(ep, &packet.WillMsgResp{ReturnCode: packet.RCAccepted.Code})
	return nil
}
