package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handlePubComp implements §4.6's PUBCOMP row: cancels the PUBREL
// retransmit.
func handlePubComp(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.PUBCOMP, c)
	}
	pkt := p.(*packet.PubComp)
	b.cancelRetransmit(ep, packet.PUBCOMP, 0, pkt.MsgID)
	return nil
}
