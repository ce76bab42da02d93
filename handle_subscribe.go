package mqttsn

import (
	"github.com/mqtt-sn/broker/internal/topic"
	"github.com/mqtt-sn/broker/packet"
)

// handleSubscribe implements §4.6's SUBSCRIBE row and the §9 resolution
// that rejects short topic names (TOPIC_ID_TYPE 0b10) and the reserved
// type (0b11) with return code 3 (not-supported).
func handleSubscribe(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.SUBSCRIBE, c)
	}
	pkt := p.(*packet.Subscribe)

	switch pkt.Flags.TopicIDType {
	case packet.TopicIDTypeShort, packet.TopicIDTypeReserved:
		b.send(ep, &packet.SubAck{Flags: pkt.Flags, TopicID: 0, MsgID: pkt.MsgID, ReturnCode: packet.RCRejectedNotSupported.Code})
		return nil
	case packet.TopicIDTypePredefined:
		id := u16be(pkt.Topic)
		b.index.SubscribeID(id, topic.Endpoint(ep), pkt.Flags.QoS)
		b.send(ep, &packet.SubAck{Flags: pkt.Flags, TopicID: id, MsgID: pkt.MsgID, ReturnCode: packet.RCAccepted.Code})
		b.pipeline.DeliverRetained(ep, id, pkt.Flags.QoS)
		return nil
	default: // normal topic name
		name := string(pkt.Topic)
		if topic.IsWildcard(name) {
			b.index.SubscribeFilter(name, topic.Endpoint(ep), pkt.Flags.QoS)
			b.send(ep, &packet.SubAck{Flags: pkt.Flags, TopicID: 0, MsgID: pkt.MsgID, ReturnCode: packet.RCAccepted.Code})
			return nil
		}
		id, err := b.index.RegisterName(name)
		if err != nil {
			b.send(ep, &packet.SubAck{Flags: pkt.Flags, TopicID: 0, MsgID: pkt.MsgID, ReturnCode: packet.RCRejectedInvalidTopicID.Code})
			return err
		}
		b.index.SubscribeID(id, topic.Endpoint(ep), pkt.Flags.QoS)
		b.send(ep, &packet.SubAck{Flags: pkt.Flags, TopicID: id, MsgID: pkt.MsgID, ReturnCode: packet.RCAccepted.Code})
		b.pipeline.DeliverRetained(ep, id, pkt.Flags.QoS)
		return nil
	}
}

// u16be reads a big-endian uint16 from the first two bytes of b, or 0 if
// b is too short.
func u16be(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return uint16(b[0])<<8 | uint16(b[1])
}
