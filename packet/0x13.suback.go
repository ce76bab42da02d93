package packet

import "bytes"

type SubAck struct {
	Flags      Flags // only the QoS bits are meaningful
	TopicID    uint16
	MsgID      uint16
	ReturnCode uint8
}

func (p *SubAck) Kind() byte { return SUBACK }

func (p *SubAck) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.Flags.Encode())
	buf.Write(put16(p.TopicID))
	buf.Write(put16(p.MsgID))
	buf.WriteByte(p.ReturnCode)
	return nil
}

func (p *SubAck) UnpackBody(body []byte) error {
	if err := needLen(body, 6); err != nil {
		return err
	}
	flags, err := DecodeFlags(body[0])
	if err != nil {
		return err
	}
	p.Flags = flags
	p.TopicID = u16(body[1:3])
	p.MsgID = u16(body[3:5])
	p.ReturnCode = body[5]
	return nil
}
