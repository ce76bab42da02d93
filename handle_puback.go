package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handlePubAck implements §4.6's PUBACK row: cancels the QoS-1 retransmit.
func handlePubAck(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.PUBACK, c)
	}
	pkt := p.(*packet.PubAck)
	b.cancelRetransmit(ep, packet.PUBACK, pkt.TopicID, pkt.MsgID)
	return nil
}
