// Package gwadvert is the peripheral gateway-discovery advertiser named
// in §6/§9 as explicitly outside the core: it periodically multicasts
// ADVERTISE and answers SEARCHGW with GWINFO on the well-known multicast
// group 239.255.42.98:60006. It never touches the connection registry,
// the filter index, or either timing wheel — it only knows how to encode
// and send two PDU kinds, grounded on the teacher's habit of keeping
// peripheral transport concerns (its federated.go HTTP gossip) isolated
// from the core broker package.
package gwadvert

import (
	"log"
	"net"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/mqtt-sn/broker/packet"
)

// DefaultGroup is the MQTT-SN gateway-discovery multicast address (§6).
const DefaultGroup = "239.255.42.98:60006"

// DefaultAdvertiseInterval is a conservative ADVERTISE period; the spec
// leaves this implementation-defined (§6 lists the address/port only).
const DefaultAdvertiseInterval = 30 * time.Second

// Advertiser periodically broadcasts ADVERTISE on the gateway-discovery
// multicast group and answers SEARCHGW with GWINFO.
type Advertiser struct {
	GwID     uint8
	Group    string
	Interval time.Duration
	// GatewayAddr is the advertised unicast address clients should use
	// to reach the broker's UDP listener, reported to searching clients
	// via GWINFO.GwAdd.
	GatewayAddr string
}

// New returns an Advertiser for gwID and gatewayAddr, using the package's
// default group and advertise interval.
func New(gwID uint8, gatewayAddr string) *Advertiser {
	return &Advertiser{GwID: gwID, Group: DefaultGroup, Interval: DefaultAdvertiseInterval, GatewayAddr: gatewayAddr}
}

// Run joins the multicast group and blocks, periodically sending
// ADVERTISE and replying to SEARCHGW, until done is closed.
func (a *Advertiser) Run(done <-chan struct{}) error {
	groupAddr, err := net.ResolveUDPAddr("udp4", a.Group)
	if err != nil {
		return err
	}
	conn, err := net.ListenPacket("udp4", a.Group)
	if err != nil {
		return err
	}
	defer conn.Close()

	pc := ipv4.NewPacketConn(conn)
	if err := pc.JoinGroup(nil, groupAddr); err != nil {
		return err
	}
	defer pc.LeaveGroup(nil, groupAddr)

	go a.advertiseLoop(conn, groupAddr, done)
	return a.listenLoop(conn, done)
}

func (a *Advertiser) advertiseLoop(conn net.PacketConn, group *net.UDPAddr, done <-chan struct{}) {
	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			data, err := packet.Encode(&packet.Advertise{GwID: a.GwID, Duration: uint16(a.Interval / time.Second)})
			if err != nil {
				log.Printf("mqtt-sn: gwadvert: encode advertise: %v", err)
				continue
			}
			if _, err := conn.WriteTo(data, group); err != nil {
				log.Printf("mqtt-sn: gwadvert: send advertise: %v", err)
			}
		}
	}
}

func (a *Advertiser) listenLoop(conn net.PacketConn, done <-chan struct{}) error {
	buf := make([]byte, packet.DefaultMTU)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-done:
				return nil
			default:
			}
			return err
		}
		pkt, err := packet.Decode(append([]byte(nil), buf[:n]...))
		if err != nil {
			continue
		}
		if _, ok := pkt.(*packet.SearchGW); !ok {
			continue
		}
		reply, err := packet.Encode(&packet.GWInfo{GwID: a.GwID, GwAdd: []byte(a.GatewayAddr)})
		if err != nil {
			log.Printf("mqtt-sn: gwadvert: encode gwinfo: %v", err)
			continue
		}
		if _, err := conn.WriteTo(reply, from); err != nil {
			log.Printf("mqtt-sn: gwadvert: reply gwinfo to %s: %v", from, err)
		}
	}
}
