package packet

import "bytes"

type WillMsgUpd struct {
	Message []byte
}

func (p *WillMsgUpd) Kind() byte { return WILLMSGUPD }

func (p *WillMsgUpd) PackBody(buf *bytes.Buffer) error {
	buf.Write(p.Message)
	return nil
}

func (p *WillMsgUpd) UnpackBody(body []byte) error {
	p.Message = append([]byte(nil), body...)
	return nil
}
