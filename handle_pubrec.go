package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handlePubRec implements §4.6's PUBREC row: cancels the QoS-2 PUBLISH
// retransmit and arms the PUBREL retransmit in its place.
func handlePubRec(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.PUBREC, c)
	}
	pkt := p.(*packet.PubRec)
	b.cancelRetransmit(ep, packet.PUBREC, 0, pkt.MsgID)
	b.sendWithRetransmit(ep, &packet.PubRel{MsgID: pkt.MsgID}, packet.PUBCOMP, 0, pkt.MsgID)
	return nil
}
