package mqttsn

import (
	"github.com/mqtt-sn/broker/internal/topic"
	"github.com/mqtt-sn/broker/packet"
)

// handleUnsubscribe implements §4.6's UNSUBSCRIBE row. A missing entry is
// benign (§4.2) — UNSUBACK is sent either way.
func handleUnsubscribe(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.UNSUBSCRIBE, c)
	}
	pkt := p.(*packet.Unsubscribe)

	switch pkt.Flags.TopicIDType {
	case packet.TopicIDTypeShort, packet.TopicIDTypeReserved:
		b.send(ep, &packet.UnsubAck{MsgID: pkt.MsgID})
		return nil
	case packet.TopicIDTypePredefined:
		_ = b.index.UnsubscribeID(u16be(pkt.Topic), topic.Endpoint(ep))
	default:
		name := string(pkt.Topic)
		if topic.IsWildcard(name) {
			_ = b.index.UnsubscribeFilter(name, topic.Endpoint(ep))
		} else if id, ok := b.index.LookupID(name); ok {
			_ = b.index.UnsubscribeID(id, topic.Endpoint(ep))
		}
	}
	b.send(ep, &packet.UnsubAck{MsgID: pkt.MsgID})
	return nil
}
