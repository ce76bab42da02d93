package packet

// Flags decodes/encodes the single flags octet shared by CONNECT, WILLTOPIC,
// PUBLISH, SUBSCRIBE, SUBACK, UNSUBSCRIBE and the WILLTOPICUPD PDUs (§4.1):
//
//	bit  7   6 5   4      3    2              1 0
//	     DUP QoS   RETAIN WILL CLEAN_SESSION  TOPIC_ID_TYPE
type Flags struct {
	Dup          bool
	QoS          int8 // 0, 1, 2, or -1 (qos-minus-one)
	Retain       bool
	Will         bool
	CleanSession bool
	TopicIDType  uint8 // TopicIDTypeNormal/Predefined/Short/Reserved
}

func DecodeFlags(b byte) (Flags, error) {
	qosBits := (b >> 5) & 0b11
	f := Flags{
		Dup:          b&0b10000000 != 0,
		Retain:       b&0b00010000 != 0,
		Will:         b&0b00001000 != 0,
		CleanSession: b&0b00000100 != 0,
		TopicIDType:  b & 0b00000011,
	}
	switch qosBits {
	case 0b00:
		f.QoS = 0
	case 0b01:
		f.QoS = 1
	case 0b10:
		f.QoS = 2
	case 0b11:
		f.QoS = -1
	}
	return f, nil
}

func (f Flags) Encode() byte {
	var b byte
	if f.Dup {
		b |= 0b10000000
	}
	switch f.QoS {
	case 0:
		// 00
	case 1:
		b |= 0b00100000
	case 2:
		b |= 0b01000000
	case -1:
		b |= 0b01100000
	}
	if f.Retain {
		b |= 0b00010000
	}
	if f.Will {
		b |= 0b00001000
	}
	if f.CleanSession {
		b |= 0b00000100
	}
	b |= f.TopicIDType & 0b11
	return b
}
