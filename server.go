package mqttsn

import (
	"errors"
	"log"
	"math/rand"
	"net"
	"sync/atomic"
	"time"

	"github.com/mqtt-sn/broker/internal/topic"
	"github.com/mqtt-sn/broker/packet"
)

// shutdownPollIntervalMax bounds the backoff used by Shutdown while
// waiting for the egress queue to drain, mirroring the teacher's
// Server.Shutdown polling loop (server.go) adapted from "wait for idle
// connections" to "wait for the egress queue to empty".
const shutdownPollIntervalMax = 500 * time.Millisecond

// ErrServerClosed is returned by Broker.ListenAndServe after Shutdown.
var ErrServerClosed = errors.New("mqtt-sn: broker closed")

// Broker bundles every component described in §3/§4 behind the single
// UDP socket C8 reads from: the connection registry (C3), the filter
// index (C2), the retransmit and keep-alive wheels (C4/C5), the PUBLISH
// pipeline (C6) and the egress queue (§5).
type Broker struct {
	registry   *Registry
	index      *topic.Index
	pipeline   *Pipeline
	retransmit *RetransmitWheel
	keepalive  *KeepAliveWheel
	egress     *queue[egressFrame]

	inShutdown atomic.Bool
	done       chan struct{}
	conn       net.PacketConn
}

// NewBroker wires every component together following the dependency
// order in §3: index and registry have no dependencies, the wheels
// depend on egress, the pipeline depends on the wheels, and the
// keep-alive wheel depends on the pipeline for will publication.
func NewBroker(opts ...Option) *Broker {
	options := newOptions(opts...)

	b := &Broker{
		registry: NewRegistry(options.Store),
		index:    topic.New(),
		egress:   newQueue[egressFrame](),
		done:     make(chan struct{}),
	}
	tick := time.Duration(CONFIG.WheelTickMillis) * time.Millisecond
	b.retransmit = NewRetransmitWheel(tick, b.egress, func(RetransmitKey) { stat.RetransmitsFired.Inc() }, func(RetransmitKey) { stat.RetransmitsDropped.Inc() })
	b.pipeline = NewPipeline(b.index, b.registry, b.retransmit, b.egress)
	b.keepalive = NewKeepAliveWheel(tick, b.registry, b.index, b.pipeline)
	return b
}

func (b *Broker) shuttingDown() bool { return b.inShutdown.Load() }

// ListenAndServe opens a UDP socket on addr and runs the ingress loop,
// the egress loop, and both timing wheels until Shutdown is called.
// It always returns a non-nil error; after Shutdown that error is
// ErrServerClosed.
func (b *Broker) ListenAndServe(addr string) error {
	if b.shuttingDown() {
		return ErrServerClosed
	}
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	b.conn = pc
	log.Printf("mqtt-sn: udp serve: %s", pc.LocalAddr())

	go b.keepalive.Run(b.done)
	go b.retransmit.Run(b.done)
	go b.egressLoop(pc)

	return b.ingressLoop(pc)
}

// ingressLoop is C8: it reads one datagram at a time (UDP never merges
// or splits datagrams across the kernel boundary, §4.1), decodes it, and
// dispatches to the matching handler. CONNECT and QoS-0 PUBLISH are the
// only PDUs accepted from an endpoint with no connection record; every
// other PDU from an unknown endpoint is logged and dropped (§4.7).
func (b *Broker) ingressLoop(pc net.PacketConn) error {
	buf := make([]byte, packet.DefaultMTU)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if b.shuttingDown() {
				return ErrServerClosed
			}
			return err
		}
		udpAddr, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}
		ep, err := EndpointFromUDPAddr(udpAddr)
		if err != nil {
			log.Printf("mqtt-sn: %v", err)
			continue
		}

		data := append([]byte(nil), buf[:n]...)
		pkt, err := packet.Decode(data)
		if err != nil {
			log.Printf("mqtt-sn: decode from %s: %v", ep, err)
			continue
		}
		stat.PDUReceived.WithLabelValues(packet.Kind[pkt.Kind()]).Inc()

		conn, known := b.registry.Get(ep)
		if known {
			b.keepalive.Touch(ep)
		}

		handler, ok := dispatch[pkt.Kind()]
		if !ok {
			log.Printf("mqtt-sn: no handler for %s from %s", packet.Kind[pkt.Kind()], ep)
			continue
		}
		if !known && pkt.Kind() != packet.CONNECT && !isStatelessPublish(pkt) {
			log.Printf("mqtt-sn: %s from unknown endpoint %s: dropped", packet.Kind[pkt.Kind()], ep)
			continue
		}
		if err := handler(b, ep, conn, pkt); err != nil {
			log.Printf("mqtt-sn: %v", err)
		}
	}
}

// isStatelessPublish reports whether pkt is a QoS-0 PUBLISH, the one PDU
// the ingress worker accepts from an endpoint with no connection record
// (§4.7: "the latter only for QoS-0 publishes from stateless publishers").
func isStatelessPublish(pkt packet.Packet) bool {
	pub, ok := pkt.(*packet.Publish)
	return ok && pub.Flags.QoS == 0
}

// egressLoop is the companion half of §5's ingress/egress split: it pops
// encoded frames pushed by handlers and the timing wheels and writes them
// to the socket. Because queue.pop blocks, this goroutine parks when
// idle instead of spinning. It returns once the queue is closed and
// drained.
func (b *Broker) egressLoop(pc net.PacketConn) {
	for {
		frame, ok := b.egress.pop()
		if !ok {
			return
		}
		if _, err := pc.WriteTo(frame.data, frame.to.UDPAddr()); err != nil {
			log.Printf("mqtt-sn: write to %s: %v", frame.to, err)
			continue
		}
		if hdr, err := packet.ParseHeader(frame.data); err == nil {
			stat.PDUSent.WithLabelValues(packet.Kind[hdr.MsgType]).Inc()
		}
	}
}

// Shutdown stops both timing wheels, polls until the egress queue has
// drained, then closes the socket and the queue, following the teacher's
// Server.Shutdown poll-with-jitter loop (server.go) adapted from "wait for
// idle connections" to "wait for pending replies to flush".
func (b *Broker) Shutdown() error {
	b.inShutdown.Store(true)
	close(b.done)

	pollIntervalBase := time.Millisecond
	nextPollInterval := func() time.Duration {
		interval := pollIntervalBase + time.Duration(rand.Intn(int(pollIntervalBase/10)+1))
		pollIntervalBase *= 2
		if pollIntervalBase > shutdownPollIntervalMax {
			pollIntervalBase = shutdownPollIntervalMax
		}
		return interval
	}
	timer := time.NewTimer(nextPollInterval())
	defer timer.Stop()
	for b.egress.len() > 0 {
		<-timer.C
		timer.Reset(nextPollInterval())
	}
	var closeErr error
	if b.conn != nil {
		closeErr = b.conn.Close()
	}
	b.egress.close()
	return closeErr
}
