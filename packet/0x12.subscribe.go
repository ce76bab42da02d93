package packet

import "bytes"

// Subscribe requests a subscription. The Topic field holds whatever the
// wire put there — a topic name, a 2-byte predefined id, or a 2-byte short
// name — and Flags.TopicIDType says which; the subscription handler (not
// the codec) rejects short names per §9.
type Subscribe struct {
	Flags Flags
	MsgID uint16
	Topic []byte
}

func (p *Subscribe) Kind() byte { return SUBSCRIBE }

func (p *Subscribe) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.Flags.Encode())
	buf.Write(put16(p.MsgID))
	buf.Write(p.Topic)
	return nil
}

func (p *Subscribe) UnpackBody(body []byte) error {
	if err := needLen(body, 3); err != nil {
		return err
	}
	flags, err := DecodeFlags(body[0])
	if err != nil {
		return err
	}
	if flags.QoS == -1 {
		return ErrQosMinusOneUnsupported
	}
	p.Flags = flags
	p.MsgID = u16(body[1:3])
	p.Topic = append([]byte(nil), body[3:]...)
	return nil
}
