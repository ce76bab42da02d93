package packet

import "bytes"

type Unsubscribe struct {
	Flags Flags
	MsgID uint16
	Topic []byte
}

func (p *Unsubscribe) Kind() byte { return UNSUBSCRIBE }

func (p *Unsubscribe) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.Flags.Encode())
	buf.Write(put16(p.MsgID))
	buf.Write(p.Topic)
	return nil
}

func (p *Unsubscribe) UnpackBody(body []byte) error {
	if err := needLen(body, 3); err != nil {
		return err
	}
	flags, err := DecodeFlags(body[0])
	if err != nil {
		return err
	}
	p.Flags = flags
	p.MsgID = u16(body[1:3])
	p.Topic = append([]byte(nil), body[3:]...)
	return nil
}
