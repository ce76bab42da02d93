package packet

import "bytes"

// SearchGW is broadcast by a client looking for a gateway within Radius hops.
type SearchGW struct {
	Radius uint8
}

func (p *SearchGW) Kind() byte { return SEARCHGW }

func (p *SearchGW) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.Radius)
	return nil
}

func (p *SearchGW) UnpackBody(body []byte) error {
	if err := needLen(body, 1); err != nil {
		return err
	}
	p.Radius = body[0]
	return nil
}
