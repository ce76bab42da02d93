package packet

import (
	"encoding/binary"
)

// Header is the result of the pre-parse step described in §4.1: decoding
// only the length and message type without touching the PDU body, so the
// dispatcher (C8) can pick a handler before paying for a full decode.
type Header struct {
	Length    uint16 // total PDU length in octets, including the length header itself
	HeaderLen uint8  // 2 (short form) or 4 (long form)
	MsgType   byte
}

// ParseHeader implements the two length-header forms of §4.1:
//
//	short form: 1 octet, value 2-255, is the total PDU length
//	long form:  3 octets, first octet literal 0x01, next two are the
//	            length in network byte order, range 256-65535
//
// The returned Header.Length is always the *total* PDU length so callers
// can validate it against len(data) regardless of which form was used.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 2 {
		return Header{}, ErrPacketTooShort
	}
	first := data[0]
	switch first {
	case 0x00, 0x01:
		if first == 0x01 {
			if len(data) < 4 {
				return Header{}, ErrPacketTooShort
			}
			length := binary.BigEndian.Uint16(data[1:3])
			return Header{Length: length, HeaderLen: 4, MsgType: data[3]}, nil
		}
		return Header{}, ErrReservedLengthValue
	default:
		return Header{Length: uint16(first), HeaderLen: 2, MsgType: data[1]}, nil
	}
}

// EncodeLengthHeader writes the length header for a PDU whose total size
// (header + body) is totalLen, choosing the short form iff totalLen < 256
// (§8 invariant 2).
func EncodeLengthHeader(totalLen int) ([]byte, error) {
	if totalLen < 2 || totalLen > 0xFFFF {
		return nil, ErrPacketTooLarge
	}
	if totalLen < 256 {
		return []byte{byte(totalLen)}, nil
	}
	b := make([]byte, 3)
	b[0] = 0x01
	binary.BigEndian.PutUint16(b[1:], uint16(totalLen))
	return b, nil
}

// HeaderLenFor reports the length-header size (2 or 4 octets, including the
// message-type octet) that totalLen will require.
func HeaderLenFor(totalLen int) uint8 {
	if totalLen < 256 {
		return 2
	}
	return 4
}
