package packet

import "bytes"

// Publish carries a payload for TopicID at the given QoS (§4.5).
//
// Layout: Flags(1) | TopicID(2) | MsgID(2) | Data(rest)
//
// TopicID's interpretation depends on Flags.TopicIDType: for
// TopicIDTypeNormal/Predefined it's the 16-bit id itself; for
// TopicIDTypeShort the two octets are the short name's two ASCII
// characters packed big-endian, which this type stores in the same
// field without attempting to decode further — the publish pipeline
// decides what to do with each type (and rejects Short per §9).
//
// MsgID is meaningless at QoS 0 but still occupies its two octets; the
// sender is free to set it to 0.
type Publish struct {
	Flags   Flags
	TopicID uint16
	MsgID   uint16
	Data    []byte
}

func (p *Publish) Kind() byte { return PUBLISH }

func (p *Publish) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.Flags.Encode())
	buf.Write(put16(p.TopicID))
	buf.Write(put16(p.MsgID))
	buf.Write(p.Data)
	return nil
}

func (p *Publish) UnpackBody(body []byte) error {
	if err := needLen(body, 5); err != nil {
		return err
	}
	flags, err := DecodeFlags(body[0])
	if err != nil {
		return err
	}
	if flags.QoS == -1 {
		return ErrQosMinusOneUnsupported
	}
	p.Flags = flags
	p.TopicID = u16(body[1:3])
	p.MsgID = u16(body[3:5])
	p.Data = append([]byte(nil), body[5:]...)
	return nil
}
