package packet

import "bytes"

// WillTopic carries the will topic during WillSetup, or — when its body is
// empty (the "2-octet WILLTOPIC" form, §9 open question) — requests that the
// connection's will be cleared. Empty must be checked before Flags/Topic are
// meaningful.
type WillTopic struct {
	Empty bool
	Flags Flags // only QoS and Retain bits are meaningful here
	Topic []byte
}

func (p *WillTopic) Kind() byte { return WILLTOPIC }

func (p *WillTopic) PackBody(buf *bytes.Buffer) error {
	if p.Empty {
		return nil
	}
	buf.WriteByte(p.Flags.Encode())
	buf.Write(p.Topic)
	return nil
}

func (p *WillTopic) UnpackBody(body []byte) error {
	if len(body) == 0 {
		p.Empty = true
		return nil
	}
	flags, err := DecodeFlags(body[0])
	if err != nil {
		return err
	}
	if flags.QoS == -1 {
		return ErrQosMinusOneUnsupported
	}
	p.Flags = flags
	p.Topic = append([]byte(nil), body[1:]...)
	return nil
}
