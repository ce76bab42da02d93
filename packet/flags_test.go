package packet

import "testing"

func TestFlagsRoundTrip(t *testing.T) {
	cases := []Flags{
		{Dup: false, QoS: 0, Retain: false, Will: false, CleanSession: false, TopicIDType: TopicIDTypeNormal},
		{Dup: true, QoS: 1, Retain: true, Will: true, CleanSession: true, TopicIDType: TopicIDTypePredefined},
		{Dup: false, QoS: 2, Retain: false, Will: true, CleanSession: false, TopicIDType: TopicIDTypeShort},
	}
	for _, c := range cases {
		b := c.Encode()
		got, err := DecodeFlags(b)
		if err != nil {
			t.Fatalf("DecodeFlags: %v", err)
		}
		if got != c {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
		}
	}
}

func TestFlagsQosMinusOne(t *testing.T) {
	b := Flags{QoS: -1}.Encode()
	got, err := DecodeFlags(b)
	if err != nil {
		t.Fatalf("DecodeFlags: %v", err)
	}
	if got.QoS != -1 {
		t.Fatalf("QoS = %d, want -1", got.QoS)
	}
}
