package packet

import "bytes"

type WillTopicResp struct {
	ReturnCode uint8
}

func (p *WillTopicResp) Kind() byte { return WILLTOPICRESP }

func (p *WillTopicResp) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.ReturnCode)
	return nil
}

func (p *WillTopicResp) UnpackBody(body []byte) error {
	if err := needLen(body, 1); err != nil {
		return err
	}
	p.ReturnCode = body[0]
	return nil
}
