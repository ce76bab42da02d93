package packet

import "bytes"

type RegAck struct {
	TopicID    uint16
	MsgID      uint16
	ReturnCode uint8
}

func (p *RegAck) Kind() byte { return REGACK }

func (p *RegAck) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.TopicID))
	buf.Write(put16(p.MsgID))
	buf.WriteByte(p.ReturnCode)
	return nil
}

func (p *RegAck) UnpackBody(body []byte) error {
	if err := needLen(body, 5); err != nil {
		return err
	}
	p.TopicID = u16(body[0:2])
	p.MsgID = u16(body[2:4])
	p.ReturnCode = body[4]
	return nil
}
