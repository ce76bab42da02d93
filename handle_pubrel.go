package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handlePubRel implements §4.6's PUBREL row via the pipeline's QoS-2
// fan-out-at-PUBREL step (§4.5).
func handlePubRel(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.PUBREL, c)
	}
	pkt := p.(*packet.PubRel)
	b.pipeline.HandlePubRel(ep, pkt.MsgID)
	return nil
}
