package packet

import "bytes"

// ProtocolID is the only defined value of the CONNECT protocol-id octet.
const ProtocolID uint8 = 0x01

// Connect requests a new connection (§4.6). Unlike MQTT, the client id is
// not length-prefixed inside the body: it occupies the remainder of the
// PDU as implied by the length header (§4.1).
//
// Layout: Flags(1) | ProtocolId(1) | Duration(2) | ClientId(1-23)
type Connect struct {
	Flags      Flags
	ProtocolID uint8
	Duration   uint16
	ClientID   []byte
}

func (p *Connect) Kind() byte { return CONNECT }

func (p *Connect) PackBody(buf *bytes.Buffer) error {
	buf.WriteByte(p.Flags.Encode())
	buf.WriteByte(p.ProtocolID)
	buf.Write(put16(p.Duration))
	buf.Write(p.ClientID)
	return nil
}

func (p *Connect) UnpackBody(body []byte) error {
	if err := needLen(body, 4); err != nil {
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
	p.ProtocolID = body[1]
	p.Duration = u16(body[2:4])
	p.ClientID = append([]byte(nil), body[4:]...)
	if len(p.ClientID) < 1 || len(p.ClientID) > 23 {
		return ErrClientIDSize
	}
	return nil
}
