package mqttsn

import "github.com/mqtt-sn/broker/packet"

// handleRegister implements §4.6's REGISTER row: resolves (or allocates)
// a topic-id for the given name and acks with it.
func handleRegister(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	if c == nil || c.State != StateActive {
		return errOutOfState(ep, packet.REGISTER, c)
	}
	pkt := p.(*packet.Register)
	id, err := b.index.RegisterName(string(pkt.TopicName))
	if err != nil {
		b.send(ep, &packet.RegAck{TopicID: 0, MsgID: pkt.MsgID, ReturnCode: packet.RCRejectedInvalidTopicID.Code})
		return err
	}
	b.send(ep, &packet.RegAck{TopicID: id, MsgID: pkt.MsgID, ReturnCode: packet.RCAccepted.Code})
	return nil
}
