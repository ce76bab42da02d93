package packet

import "bytes"

type WillMsg struct {
	Message []byte
}

func (p *WillMsg) Kind() byte { return WILLMSG }

func (p *WillMsg) PackBody(buf *bytes.Buffer) error {
	buf.Write(p.Message)
	return nil
}

func (p *WillMsg) UnpackBody(body []byte) error {
	p.Message = append([]byte(nil), body...)
	return nil
}
