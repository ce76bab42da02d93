package packet

import "encoding/binary"

// u16 and put16 wrap the network-byte-order 2-octet integers used for topic
// ids, message ids, and durations throughout the PDU bodies (§4.1: "All
// multi-byte integers are network-order").
func u16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func put16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// needLen returns ErrMalformedBody if b is shorter than n, otherwise nil.
// PDU Unpack methods call this before slicing fixed-size fields so a
// truncated datagram never panics the decoder.
func needLen(b []byte, n int) error {
	if len(b) < n {
		return ErrMalformedBody
	}
	return nil
}
