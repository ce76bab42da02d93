package packet

import "bytes"

type PubRel struct {
	MsgID uint16
}

func (p *PubRel) Kind() byte { return PUBREL }

func (p *PubRel) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.MsgID))
	return nil
}

func (p *PubRel) UnpackBody(body []byte) error {
	if err := needLen(body, 2); err != nil {
		return err
	}
	p.MsgID = u16(body[0:2])
	return nil
}
