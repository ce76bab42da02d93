package packet

import "bytes"

type UnsubAck struct {
	MsgID uint16
}

func (p *UnsubAck) Kind() byte { return UNSUBACK }

func (p *UnsubAck) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.MsgID))
	return nil
}

func (p *UnsubAck) UnpackBody(body []byte) error {
	if err := needLen(body, 2); err != nil {
		return err
	}
	p.MsgID = u16(body[0:2])
	return nil
}
