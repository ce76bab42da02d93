package packet

import "bytes"

// GWInfo answers a SearchGW. GwAdd is only present when a client (not the
// gateway itself) relays the info, carrying the gateway's address.
type GWInfo struct {
	GwID  uint8
	GwAdd []byte
}

func (p *GWInfo) Kind() byte { return GWINFO }

func (p *GWInfo) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.GwID)
	buf.Write(p.GwAdd)
	return nil
}

func (p *GWInfo) UnpackBody(body []byte) error {
	if err := needLen(body, 1); err != nil {
		return err
	}
	p.GwID = body[0]
	if len(body) > 1 {
		p.GwAdd = append([]byte(nil), body[1:]...)
	}
	return nil
}
