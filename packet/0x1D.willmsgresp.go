package packet

import "bytes"

type WillMsgResp struct {
	ReturnCode uint8
}

func (p *WillMsgResp) Kind() byte { return WILLMSGRESP }

func (p *WillMsgResp) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.ReturnCode)
	return nil
}

func (p *WillMsgResp) UnpackBody(body []byte) error {
	if err := needLen(body, 1); err != nil {
		return err
	}
	p.ReturnCode = body[0]
	return nil
}
