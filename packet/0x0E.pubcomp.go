package packet

import "bytes"

type PubComp struct {
	MsgID uint16
}

func (p *PubComp) Kind() byte { return PUBCOMP }

func (p *PubComp) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.MsgID))
	return nil
}

func (p *PubComp) UnpackBody(body []byte) error {
	if err := needLen(body, 2); err != nil {
		return err
	}
	p.MsgID = u16(body[0:2])
	return nil
}
