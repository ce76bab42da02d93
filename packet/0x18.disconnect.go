package packet

import "bytes"

// Disconnect optionally carries a sleep Duration (§4.6): absent means a
// normal disconnect, present means "go to Asleep for Duration seconds".
type Disconnect struct {
	HasDuration bool
	Duration    uint16
}

func (p *Disconnect) Kind() byte { return DISCONNECT }

func (p *Disconnect) PackBody(buf *bytes.Buffer) error {
	if p.HasDuration {
		buf.Write(put16(p.Duration))
	}
	return nil
}

func (p *Disconnect) UnpackBody(body []byte) error {
	if len(body) == 0 {
		return nil
	}
	if err := needLen(body, 2); err != nil {
		return err
	}
	p.HasDuration = true
	p.Duration = u16(body[0:2])
	return nil
}
