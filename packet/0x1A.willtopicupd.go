package packet

import "bytes"

// WillTopicUpd updates (or, with an empty body, deletes — §9) the will
// topic of an already-Active connection.
type WillTopicUpd struct {
	Empty bool
	Flags Flags
	Topic []byte
}

func (p *WillTopicUpd) Kind() byte { return WILLTOPICUPD }

func (p *WillTopicUpd) PackBody(buf *bytes.Buffer) error {
	if p.Empty {
		return nil
	}
	buf.WriteByte(p.Flags.Encode())
	buf.Write(p.Topic)
	return nil
}

func (p *WillTopicUpd) UnpackBody(body []byte) error {
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
