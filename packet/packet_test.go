package packet

import (
	"bytes"
	"testing"
)

// TestEncodeDecodeRoundTrip covers §8 invariant 1: for every PDU p produced
// by the encoder, decode(encode(p)) == p.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Packet{
		&Connect{
			Flags:      Flags{CleanSession: true, Will: true},
			ProtocolID: ProtocolID,
			Duration:   300,
			ClientID:   []byte("sensor-01"),
		},
		&ConnAck{ReturnCode: RCAccepted.Code},
		&WillTopicReq{},
		&WillTopic{Flags: Flags{QoS: 1, Retain: true}, Topic: []byte("lwt/sensor-01")},
		&WillTopic{Empty: true},
		&WillMsgReq{},
		&WillMsg{Message: []byte("offline")},
		&Register{TopicID: 0, MsgID: 7, TopicName: []byte("a/b/c")},
		&RegAck{TopicID: 42, MsgID: 7, ReturnCode: RCAccepted.Code},
		&Publish{Flags: Flags{QoS: 0, TopicIDType: TopicIDTypeNormal}, TopicID: 42, MsgID: 0, Data: []byte("hello")},
		&Publish{Flags: Flags{QoS: 1, TopicIDType: TopicIDTypeNormal}, TopicID: 42, MsgID: 9, Data: []byte("hello")},
		&Publish{Flags: Flags{QoS: 2, TopicIDType: TopicIDTypePredefined}, TopicID: 1, MsgID: 11, Data: []byte{}},
		&PubAck{TopicID: 42, MsgID: 9, ReturnCode: RCAccepted.Code},
		&PubRec{MsgID: 11},
		&PubRel{MsgID: 11},
		&PubComp{MsgID: 11},
		&Subscribe{Flags: Flags{QoS: 1, TopicIDType: TopicIDTypeNormal}, MsgID: 4, Topic: []byte("a/+/c")},
		&SubAck{Flags: Flags{QoS: 1}, TopicID: 42, MsgID: 4, ReturnCode: RCAccepted.Code},
		&Unsubscribe{Flags: Flags{TopicIDType: TopicIDTypeNormal}, MsgID: 5, Topic: []byte("a/#")},
		&UnsubAck{MsgID: 5},
		&PingReq{},
		&PingReq{ClientID: []byte("sensor-01")},
		&PingResp{},
		&Disconnect{},
		&Disconnect{HasDuration: true, Duration: 600},
		&WillTopicUpd{Flags: Flags{QoS: 1}, Topic: []byte("lwt/sensor-01")},
		&WillTopicUpd{Empty: true},
		&WillTopicResp{ReturnCode: RCAccepted.Code},
		&WillMsgUpd{Message: []byte("gone")},
		&WillMsgResp{ReturnCode: RCAccepted.Code},
		&Advertise{GwID: 1, Duration: 900},
		&SearchGW{Radius: 1},
		&GWInfo{GwID: 1, GwAdd: []byte{192, 168, 1, 1}},
		&GWInfo{GwID: 1},
	}

	for _, want := range cases {
		data, err := Encode(want)
		if err != nil {
			t.Fatalf("Encode(%T): %v", want, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%T): %v", want, err)
		}
		if got.Kind() != want.Kind() {
			t.Fatalf("Kind mismatch: got %#x want %#x", got.Kind(), want.Kind())
		}

		var wantBody, gotBody bytes.Buffer
		if err := want.PackBody(&wantBody); err != nil {
			t.Fatalf("PackBody(want): %v", err)
		}
		if err := got.PackBody(&gotBody); err != nil {
			t.Fatalf("PackBody(got): %v", err)
		}
		if !bytes.Equal(wantBody.Bytes(), gotBody.Bytes()) {
			t.Fatalf("%T round trip mismatch: got %+v want %+v", want, got, want)
		}
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	data, err := Encode(&PingReq{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data = append(data, 0xFF)
	if _, err := Decode(data); err != ErrLengthMismatch {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}

func TestDecode_UnknownMessageType(t *testing.T) {
	data := []byte{0x03, 0x7F, 0x00}
	if _, err := Decode(data); err != ErrUnknownMessageType {
		t.Fatalf("got %v, want ErrUnknownMessageType", err)
	}
}

func TestDecode_TooLarge(t *testing.T) {
	// The long-form header advertises 2000 (0x07D0), matching the datagram
	// length, so only the MTU cap can reject it.
	data := make([]byte, 2000)
	data[0] = 0x01
	data[1] = 0x07
	data[2] = 0xD0
	data[3] = PINGREQ
	if _, err := Decode(data); err != ErrPacketTooLarge {
		t.Fatalf("got %v, want ErrPacketTooLarge", err)
	}
}
