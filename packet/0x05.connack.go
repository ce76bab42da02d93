package packet

import "bytes"

type ConnAck struct {
	ReturnCode uint8
}

func (p *ConnAck) Kind() byte { return CONNACK }

func (p *ConnAck) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.ReturnCode)
	return nil
}

func (p *ConnAck) UnpackBody(body []byte) error {
	if err := needLen(body, 1); err != nil {
		return err
	}
	p.ReturnCode = body[0]
	return nil
}
