package packet

import "bytes"

type PubAck struct {
	TopicID    uint16
	MsgID      uint16
	ReturnCode uint8
}

func (p *PubAck) Kind() byte { return PUBACK }

func (p *PubAck) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.TopicID))
	buf.Write(put16(p.MsgID))
	buf.WriteByte(p.ReturnCode)
	return nil
}

func (p *PubAck) UnpackBody(body []byte) error {
	if err := needLen(body, 5); err != nil {
		return err
	}
	p.TopicID = u16(body[0:2])
	p.MsgID = u16(body[2:4])
	p.ReturnCode = body[4]
	return nil
}
