package packet

import "bytes"

type PubRec struct {
	MsgID uint16
}

func (p *PubRec) Kind() byte { return PUBREC }

func (p *PubRec) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.MsgID))
	return nil
}

func (p *PubRec) UnpackBody(body []byte) error {
	if err := needLen(body, 2); err != nil {
		return err
	}
	p.MsgID = u16(body[0:2])
	return nil
}
