package packet

import "bytes"

// WillMsgReq has no variable header or payload.
type WillMsgReq struct{}

func (p *WillMsgReq) Kind() byte                  { return WILLMSGREQ }
func (p *WillMsgReq) PackBody(*bytes.Buffer) error { return nil }
func (p *WillMsgReq) UnpackBody([]byte) error      { return nil }
