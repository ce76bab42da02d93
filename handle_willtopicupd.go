package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handleWillTopicUpd implements §4.6's WILLTOPICUPD row. An empty body
// deletes the will, per the same §9 convention as WILLTOPIC.
func handleWillTopicUpd(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.WILLTOPICUPD, c)
	}
	pkt := p.(*packet.WillTopicUpd)
	if pkt.Empty {
		c.WillTopic = nil
		c.WillMessage = nil
	} else {
		c.WillTopic = append([]byte(nil), pkt.Topic...)
		c.WillQoS = pkt.Flags.QoS
	}
	b.registry.MirrorUpdate(c)
	b.send(ep, &packet.WillTopicResp{ReturnCode: packet.RCAccepted.Code})
	return nil
}
