package packet

import "bytes"

// Register asks the broker to resolve (or allocate) a topic id for TopicName.
// TopicID is 0 when sent by a client; the broker echoes the resolved id back
// in REGACK, never in a further REGISTER (§4.2).
type Register struct {
	TopicID   uint16
	MsgID     uint16
	TopicName []byte
}

func (p *Register) Kind() byte { return REGISTER }

func (p *Register) PackBody(buf *bytes.Buffer) error {
	buf.Write(put16(p.TopicID))
	buf.Write(put16(p.MsgID))
	buf.Write(p.TopicName)
	return nil
}

func (p *Register) UnpackBody(body []byte) error {
	if err := needLen(body, 4); err != nil {
		return err
	}
	p.TopicID = u16(body[0:2])
	p.MsgID = u16(body[2:4])
	p.TopicName = append([]byte(nil), body[4:]...)
	return nil
}
