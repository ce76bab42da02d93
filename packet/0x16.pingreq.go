package packet

import "bytes"

// PingReq carries ClientID only when sent by a sleeping client waking for
// its buffered messages (§4.6); an awake/active client sends an empty body.
type PingReq struct {
	ClientID []byte
}

func (p *PingReq) Kind() byte { return PINGREQ }

func (p *PingReq) PackBody(buf *bytes.Buffer) error {
	buf.Write(p.ClientID)
	return nil
}

func (p *PingReq) UnpackBody(body []byte) error {
	if len(body) > 0 {
		p.ClientID = append([]byte(nil), body...)
	}
	return nil
}
