package mqttsn

import (
	"net"
	"testing"
	"time"

	"github.com/mqtt-sn/broker/packet"
)

// testClient is a bare UDP socket plus small helpers for driving the
// broker end-to-end, mirroring the teacher's integration_test.go style
// of exercising Server/conn through a real socket rather than mocks.
type testClient struct {
	t    *testing.T
	conn *net.UDPConn
}

func newTestClient(t *testing.T, brokerAddr string) *testClient {
	t.Helper()
	raddr, err := net.ResolveUDPAddr("udp4", brokerAddr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	laddr, err := net.ResolveUDPAddr("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("resolve local: %v", err)
	}
	conn, err := net.DialUDP("udp4", laddr, raddr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(pkt packet.Packet) {
	c.t.Helper()
	data, err := packet.Encode(pkt)
	if err != nil {
		c.t.Fatalf("encode %T: %v", pkt, err)
	}
	if _, err := c.conn.Write(data); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *testClient) recv() packet.Packet {
	c.t.Helper()
	buf := make([]byte, packet.DefaultMTU)
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := c.conn.Read(buf)
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	pkt, err := packet.Decode(buf[:n])
	if err != nil {
		c.t.Fatalf("decode: %v", err)
	}
	return pkt
}

// expectNothing asserts no datagram arrives within a short window.
func (c *testClient) expectNothing() {
	c.t.Helper()
	buf := make([]byte, packet.DefaultMTU)
	c.conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	n, err := c.conn.Read(buf)
	if err == nil {
		c.t.Fatalf("expected no datagram, got %d bytes", n)
	}
}

func (c *testClient) connect(clientID string) *packet.ConnAck {
	c.t.Helper()
	c.send(&packet.Connect{Flags: packet.Flags{CleanSession: true}, ProtocolID: packet.ProtocolID, Duration: 60, ClientID: []byte(clientID)})
	ack, ok := c.recv().(*packet.ConnAck)
	if !ok {
		c.t.Fatalf("expected CONNACK")
	}
	return ack
}

func (c *testClient) subscribe(msgID uint16, name string, qos int8) *packet.SubAck {
	c.t.Helper()
	c.send(&packet.Subscribe{Flags: packet.Flags{QoS: qos, TopicIDType: packet.TopicIDTypeNormal}, MsgID: msgID, Topic: []byte(name)})
	ack, ok := c.recv().(*packet.SubAck)
	if !ok {
		c.t.Fatalf("expected SUBACK")
	}
	return ack
}

func startTestBroker(t *testing.T) (*Broker, string) {
	t.Helper()
	b := NewBroker()
	lc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := lc.LocalAddr().String()
	lc.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- b.ListenAndServe(addr) }()

	// Give the broker time to bind before the first send (mirrors the
	// teacher's integration_test.go "give server time to start" wait;
	// a UDP dial can't confirm the other end is actually listening the
	// way a TCP dial would, so a plain sleep is the honest wait here).
	time.Sleep(100 * time.Millisecond)

	t.Cleanup(func() {
		b.Shutdown()
		<-errCh
	})
	return b, addr
}

// TestSeedQoS0SingleSubscriber covers spec §8 seed scenario 1.
func TestSeedQoS0SingleSubscriber(t *testing.T) {
	_, addr := startTestBroker(t)

	a := newTestClient(t, addr)
	a.connect("A")
	subAck := a.subscribe(1, "t", 0)
	if subAck.ReturnCode != packet.RCAccepted.Code {
		t.Fatalf("subscribe rejected: %d", subAck.ReturnCode)
	}

	b := newTestClient(t, addr)
	b.connect("B")

	b.send(&packet.Publish{Flags: packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal}, TopicID: subAck.TopicID, MsgID: 0, Data: []byte("hi")})

	pub, ok := a.recv().(*packet.Publish)
	if !ok {
		t.Fatal("expected PUBLISH at A")
	}
	if string(pub.Data) != "hi" || pub.Flags.QoS != 0 {
		t.Fatalf("unexpected publish: %+v", pub)
	}
	b.expectNothing()
}

// TestSeedQoS1PubAckAndRedelivery covers spec §8 seed scenario 2.
func TestSeedQoS1PubAckAndRedelivery(t *testing.T) {
	_, addr := startTestBroker(t)

	a := newTestClient(t, addr)
	a.connect("A")
	subAck := a.subscribe(1, "t", 1)

	a.send(&packet.Publish{Flags: packet.Flags{QoS: 1, TopicIDType: packet.TopicIDTypeNormal}, TopicID: subAck.TopicID, MsgID: 7, Data: []byte("x")})
	ack, ok := a.recv().(*packet.PubAck)
	if !ok || ack.MsgID != 7 || ack.ReturnCode != packet.RCAccepted.Code {
		t.Fatalf("unexpected puback: %+v ok=%v", ack, ok)
	}
	// A is its own subscriber here, so the fan-out PUBLISH arrives too.
	if _, ok := a.recv().(*packet.Publish); !ok {
		t.Fatal("expected fan-out publish")
	}

	a.send(&packet.Publish{Flags: packet.Flags{QoS: 1, Dup: true, TopicIDType: packet.TopicIDTypeNormal}, TopicID: subAck.TopicID, MsgID: 7, Data: []byte("x")})
	ack2, ok := a.recv().(*packet.PubAck)
	if !ok || ack2.MsgID != 7 {
		t.Fatalf("expected re-ack on duplicate, got %+v ok=%v", ack2, ok)
	}
	if _, ok := a.recv().(*packet.Publish); !ok {
		t.Fatal("expected second fan-out on duplicate delivery (broker does not dedupe)")
	}
}

// TestSeedQoS2FourWayHandshake covers spec §8 seed scenario 3.
func TestSeedQoS2FourWayHandshake(t *testing.T) {
	_, addr := startTestBroker(t)

	a := newTestClient(t, addr)
	a.connect("A")
	subAck := a.subscribe(1, "t", 2)

	a.send(&packet.Publish{Flags: packet.Flags{QoS: 2, TopicIDType: packet.TopicIDTypeNormal}, TopicID: subAck.TopicID, MsgID: 42, Data: []byte("p")})
	rec, ok := a.recv().(*packet.PubRec)
	if !ok || rec.MsgID != 42 {
		t.Fatalf("expected PUBREC, got %+v ok=%v", rec, ok)
	}

	a.send(&packet.PubRel{MsgID: 42})
	comp, ok := a.recv().(*packet.PubComp)
	if !ok || comp.MsgID != 42 {
		t.Fatalf("expected PUBCOMP, got %+v ok=%v", comp, ok)
	}
	pub, ok := a.recv().(*packet.Publish)
	if !ok || string(pub.Data) != "p" {
		t.Fatalf("expected fan-out publish, got %+v ok=%v", pub, ok)
	}

	// Duplicate PUBREL after PUBCOMP loss: another PUBCOMP, no second fan-out.
	a.send(&packet.PubRel{MsgID: 42})
	comp2, ok := a.recv().(*packet.PubComp)
	if !ok || comp2.MsgID != 42 {
		t.Fatalf("expected second PUBCOMP, got %+v ok=%v", comp2, ok)
	}
	a.expectNothing()
}

// TestSeedWildcardMatch covers spec §8 seed scenario 5.
func TestSeedWildcardMatch(t *testing.T) {
	_, addr := startTestBroker(t)

	s := newTestClient(t, addr)
	s.connect("S")
	ack := s.subscribe(1, "a/+/c", 0)
	if ack.ReturnCode != packet.RCAccepted.Code {
		t.Fatalf("wildcard subscribe rejected: %d", ack.ReturnCode)
	}

	pub := newTestClient(t, addr)
	pub.connect("P")

	regID := func(name string) uint16 {
		t.Helper()
		pub.send(&packet.Register{MsgID: 99, TopicName: []byte(name)})
		reg, ok := pub.recv().(*packet.RegAck)
		if !ok {
			t.Fatalf("expected REGACK for %s", name)
		}
		return reg.TopicID
	}

	abc := regID("a/b/c")
	abd := regID("a/b/d")
	abcd := regID("a/b/c/d")

	pub.send(&packet.Publish{Flags: packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal}, TopicID: abc, Data: []byte("m1")})
	got, ok := s.recv().(*packet.Publish)
	if !ok || string(got.Data) != "m1" {
		t.Fatalf("expected delivery for a/b/c, got %+v ok=%v", got, ok)
	}

	pub.send(&packet.Publish{Flags: packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal}, TopicID: abd, Data: []byte("m2")})
	s.expectNothing()

	pub.send(&packet.Publish{Flags: packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal}, TopicID: abcd, Data: []byte("m3")})
	s.expectNothing()
}

// TestSeedRetainedDelivery covers spec §8 seed scenario 6.
func TestSeedRetainedDelivery(t *testing.T) {
	_, addr := startTestBroker(t)

	r := newTestClient(t, addr)
	r.connect("R")
	r.send(&packet.Register{MsgID: 1, TopicName: []byte("retained/topic")})
	reg, ok := r.recv().(*packet.RegAck)
	if !ok {
		t.Fatal("expected REGACK")
	}

	r.send(&packet.Publish{Flags: packet.Flags{QoS: 1, Retain: true, TopicIDType: packet.TopicIDTypeNormal}, TopicID: reg.TopicID, MsgID: 5, Data: []byte("retained-payload")})
	if _, ok := r.recv().(*packet.PubAck); !ok {
		t.Fatal("expected PUBACK")
	}

	s := newTestClient(t, addr)
	s.connect("S")
	subAck := s.subscribe(1, "retained/topic", 1)
	if subAck.ReturnCode != packet.RCAccepted.Code {
		t.Fatalf("subscribe rejected: %d", subAck.ReturnCode)
	}
	pub, ok := s.recv().(*packet.Publish)
	if !ok {
		t.Fatal("expected retained PUBLISH immediately after SUBACK")
	}
	if string(pub.Data) != "retained-payload" {
		t.Fatalf("unexpected retained payload: %q", pub.Data)
	}
	if pub.Flags.Retain {
		t.Fatal("retained re-delivery must clear RETAIN (§4.5)")
	}
}

// TestStatelessQoS0PublishFromUnknownEndpoint covers §4.7: an endpoint with
// no connection record may still PUBLISH at QoS 0.
func TestStatelessQoS0PublishFromUnknownEndpoint(t *testing.T) {
	_, addr := startTestBroker(t)

	sub := newTestClient(t, addr)
	sub.connect("SUB")
	subAck := sub.subscribe(1, "stateless", 0)

	stranger := newTestClient(t, addr)
	stranger.send(&packet.Publish{Flags: packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal}, TopicID: subAck.TopicID, Data: []byte("anon")})

	pub, ok := sub.recv().(*packet.Publish)
	if !ok || string(pub.Data) != "anon" {
		t.Fatalf("expected delivery of stateless publish, got %+v ok=%v", pub, ok)
	}
}

// TestKeepAliveExpiryPublishesWill covers spec §8 seed scenario 4 and the
// §4.4 keep-alive-liveness law: a connection that stops sending PINGREQ
// is declared Lost and its will is published no later than 2×keep_alive
// seconds after the last liveness touch — not 10×, which is what the
// bug at keepalive.go's Arm (dropped `* 10` fix) would have produced.
func TestKeepAliveExpiryPublishesWill(t *testing.T) {
	_, addr := startTestBroker(t)

	sub := newTestClient(t, addr)
	sub.connect("SUB")
	subAck := sub.subscribe(1, "goodbye", 0)
	if subAck.ReturnCode != packet.RCAccepted.Code {
		t.Fatalf("subscribe rejected: %d", subAck.ReturnCode)
	}

	a := newTestClient(t, addr)
	a.send(&packet.Connect{Flags: packet.Flags{CleanSession: true, Will: true}, ProtocolID: packet.ProtocolID, Duration: 1, ClientID: []byte("A")})
	if _, ok := a.recv().(*packet.WillTopicReq); !ok {
		t.Fatal("expected WILLTOPICREQ")
	}
	a.send(&packet.WillTopic{Flags: packet.Flags{QoS: 0}, Topic: []byte("goodbye")})
	if _, ok := a.recv().(*packet.WillMsgReq); !ok {
		t.Fatal("expected WILLMSGREQ")
	}
	a.send(&packet.WillMsg{Message: []byte("bye")})
	if ack, ok := a.recv().(*packet.ConnAck); !ok || ack.ReturnCode != packet.RCAccepted.Code {
		t.Fatalf("expected CONNACK, got %+v ok=%v", ack, ok)
	}

	// No PINGREQ is ever sent: the keep-alive timer must fire well
	// within 2×1s = 2s of CONNECT, not the ~10s a stray ×10 would need.
	pub, ok := sub.recv().(*packet.Publish)
	if !ok {
		t.Fatal("expected the will PUBLISH after keep-alive expiry")
	}
	if string(pub.Data) != "bye" {
		t.Fatalf("unexpected will payload: %q", pub.Data)
	}
}

// TestUnsubscribeMissingIsBenign covers §4.2: UNSUBSCRIBE of an entry that
// was never subscribed still gets an UNSUBACK, no handler error surfaced
// to the wire.
func TestUnsubscribeMissingIsBenign(t *testing.T) {
	_, addr := startTestBroker(t)

	c := newTestClient(t, addr)
	c.connect("C")
	c.send(&packet.Unsubscribe{Flags: packet.Flags{TopicIDType: packet.TopicIDTypeNormal}, MsgID: 1, Topic: []byte("never/subscribed")})
	if _, ok := c.recv().(*packet.UnsubAck); !ok {
		t.Fatal("expected UNSUBACK even for a missing subscription")
	}
}
