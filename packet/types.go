package packet

// Message type constants (§6). Position: the single octet following the
// length header. Values are bit-exact with MQTT-SN 1.2 and must never
// change independently of a protocol revision.
const (
	ADVERTISE     byte = 0x00
	SEARCHGW      byte = 0x01
	GWINFO        byte = 0x02
	CONNECT       byte = 0x04
	CONNACK       byte = 0x05
	WILLTOPICREQ  byte = 0x06
	WILLTOPIC     byte = 0x07
	WILLMSGREQ    byte = 0x08
	WILLMSG       byte = 0x09
	REGISTER      byte = 0x0A
	REGACK        byte = 0x0B
	PUBLISH       byte = 0x0C
	PUBACK        byte = 0x0D
	PUBCOMP       byte = 0x0E
	PUBREC        byte = 0x0F
	PUBREL        byte = 0x10
	SUBSCRIBE     byte = 0x12
	SUBACK        byte = 0x13
	UNSUBSCRIBE   byte = 0x14
	UNSUBACK      byte = 0x15
	PINGREQ       byte = 0x16
	PINGRESP      byte = 0x17
	DISCONNECT    byte = 0x18
	WILLTOPICUPD  byte = 0x1A
	WILLTOPICRESP byte = 0x1B
	WILLMSGUPD    byte = 0x1C
	WILLMSGRESP   byte = 0x1D
)

// Kind names message types for logging, mirroring the teacher's packet.Kind map.
var Kind = map[byte]string{
	ADVERTISE:     "ADVERTISE",
	SEARCHGW:      "SEARCHGW",
	GWINFO:        "GWINFO",
	CONNECT:       "CONNECT",
	CONNACK:       "CONNACK",
	WILLTOPICREQ:  "WILLTOPICREQ",
	WILLTOPIC:     "WILLTOPIC",
	WILLMSGREQ:    "WILLMSGREQ",
	WILLMSG:       "WILLMSG",
	REGISTER:      "REGISTER",
	REGACK:        "REGACK",
	PUBLISH:       "PUBLISH",
	PUBACK:        "PUBACK",
	PUBCOMP:       "PUBCOMP",
	PUBREC:        "PUBREC",
	PUBREL:        "PUBREL",
	SUBSCRIBE:     "SUBSCRIBE",
	SUBACK:        "SUBACK",
	UNSUBSCRIBE:   "UNSUBSCRIBE",
	UNSUBACK:      "UNSUBACK",
	PINGREQ:       "PINGREQ",
	PINGRESP:      "PINGRESP",
	DISCONNECT:    "DISCONNECT",
	WILLTOPICUPD:  "WILLTOPICUPD",
	WILLTOPICRESP: "WILLTOPICRESP",
	WILLMSGUPD:    "WILLMSGUPD",
	WILLMSGRESP:   "WILLMSGRESP",
}

// TopicIDType values, bits 1-0 of the flags octet (§4.1).
const (
	TopicIDTypeNormal     uint8 = 0b00
	TopicIDTypePredefined uint8 = 0b01
	TopicIDTypeShort      uint8 = 0b10
	TopicIDTypeReserved   uint8 = 0b11
)
