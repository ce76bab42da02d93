package packet

import "bytes"

// WillTopicReq has no variable header or payload.
type WillTopicReq struct{}

func (p *WillTopicReq) Kind() byte                      { return WILLTOPICREQ }
func (p *WillTopicReq) PackBody(*bytes.Buffer) error     { return nil }
func (p *WillTopicReq) UnpackBody([]byte) error          { return nil }
