// Command mqtt-sn-client is a minimal demo/test client, peripheral to the
// core the same way the teacher's cmd/mqtt-client is peripheral to its
// Server: it CONNECTs, SUBSCRIBEs to a topic filter, then alternates
// between publishing a timestamp and printing whatever arrives, using
// errgroup to supervise the publish loop and the signal-driven shutdown
// exactly like the teacher's cmd/mqtt-client/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mqtt-sn/broker/packet"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:60000", "broker UDP address")
	clientID := flag.String("id", fmt.Sprintf("demo-%d", os.Getpid()), "client id")
	topicName := flag.String("topic", "demo/ping", "topic to subscribe and publish to")
	flag.Parse()

	raddr, err := net.ResolveUDPAddr("udp4", *addr)
	if err != nil {
		log.Fatalf("mqtt-sn-client: resolve %s: %v", *addr, err)
	}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		log.Fatalf("mqtt-sn-client: dial %s: %v", *addr, err)
	}
	defer conn.Close()

	c := &client{conn: conn, clientID: *clientID, topicName: *topicName}

	if err := c.connect(); err != nil {
		log.Fatalf("mqtt-sn-client: connect: %v", err)
	}
	if err := c.subscribe(); err != nil {
		log.Fatalf("mqtt-sn-client: subscribe: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := c.publish(time.Now().Format(time.RFC3339)); err != nil {
					log.Printf("mqtt-sn-client: publish: %v", err)
				}
			}
		}
	})

	group.Go(func() error {
		for {
			msg, err := c.readPublish()
			if err != nil {
				return err
			}
			if msg != "" {
				log.Printf("mqtt-sn-client: recv: %s", msg)
			}
		}
	})

	group.Go(func() error {
		defer cancel()
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-sig:
			return fmt.Errorf("mqtt-sn-client: got signal %s", s)
		}
	})

	if err := group.Wait(); err != nil {
		log.Printf("mqtt-sn-client: exiting: %v", err)
	}
}

// client is a bare-bones, QoS-0-only MQTT-SN client: enough to exercise
// the broker's CONNECT/SUBACK/PUBLISH path from the command line without
// pulling in retransmit/state-machine logic a demo doesn't need.
type client struct {
	conn      *net.UDPConn
	clientID  string
	topicName string
	topicID   uint16
	msgID     uint16
}

func (c *client) send(pkt packet.Packet) error {
	data, err := packet.Encode(pkt)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(data)
	return err
}

func (c *client) recv() (packet.Packet, error) {
	buf := make([]byte, packet.DefaultMTU)
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := c.conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return packet.Decode(buf[:n])
}

func (c *client) connect() error {
	if err := c.send(&packet.Connect{
		Flags:      packet.Flags{CleanSession: true},
		ProtocolID: packet.ProtocolID,
		Duration:   60,
		ClientID:   []byte(c.clientID),
	}); err != nil {
		return err
	}
	pkt, err := c.recv()
	if err != nil {
		return err
	}
	ack, ok := pkt.(*packet.ConnAck)
	if !ok {
		return fmt.Errorf("mqtt-sn-client: expected CONNACK, got %T", pkt)
	}
	if ack.ReturnCode != packet.RCAccepted.Code {
		return fmt.Errorf("mqtt-sn-client: connect rejected: code %d", ack.ReturnCode)
	}
	return nil
}

func (c *client) subscribe() error {
	c.msgID++
	if err := c.send(&packet.Subscribe{
		Flags: packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal},
		MsgID: c.msgID,
		Topic: []byte(c.topicName),
	}); err != nil {
		return err
	}
	pkt, err := c.recv()
	if err != nil {
		return err
	}
	ack, ok := pkt.(*packet.SubAck)
	if !ok {
		return fmt.Errorf("mqtt-sn-client: expected SUBACK, got %T", pkt)
	}
	if ack.ReturnCode != packet.RCAccepted.Code {
		return fmt.Errorf("mqtt-sn-client: subscribe rejected: code %d", ack.ReturnCode)
	}
	c.topicID = ack.TopicID
	return nil
}

func (c *client) publish(payload string) error {
	return c.send(&packet.Publish{
		Flags:   packet.Flags{QoS: 0, TopicIDType: packet.TopicIDTypeNormal},
		TopicID: c.topicID,
		Data:    []byte(payload),
	})
}

// readPublish blocks for the next PUBLISH and returns its payload,
// silently ignoring any other PDU kind (retained SUBACK, duplicate
// CONNACK, etc.) this minimal client doesn't otherwise act on.
func (c *client) readPublish() (string, error) {
	pkt, err := c.recv()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return "", nil
		}
		return "", err
	}
	pub, ok := pkt.(*packet.Publish)
	if !ok {
		return "", nil
	}
	return string(pub.Data), nil
}
