package mqttsn

import (
	"log"
	"sync"

	"github.com/mqtt-sn/broker/internal/topic"
	"github.com/mqtt-sn/broker/packet"
)

// RetainedMessage is a cached publish, delivered to subscribers immediately
// after a successful subscribe response when present (§3, §4.2).
type RetainedMessage struct {
	QoS     int8
	MsgID   uint16
	Payload []byte
}

type qos2Key struct {
	Publisher Endpoint
	MsgID     uint16
}

type qos2Entry struct {
	topicID     uint16
	data        []byte
	subscribers []topic.EndpointQoS
}

// Pipeline is the C6 component: QoS-0/1/2 ingest, the retained-message
// cache and the QoS-2 four-way handshake cache (§3, §4.5).
type Pipeline struct {
	index      *topic.Index
	registry   *Registry
	retransmit *RetransmitWheel
	egress     *queue[egressFrame]

	retainedMu sync.RWMutex
	retained   map[uint16]RetainedMessage

	qos2mu sync.Mutex
	qos2   map[qos2Key]qos2Entry
}

func NewPipeline(index *topic.Index, registry *Registry, retransmit *RetransmitWheel, egress *queue[egressFrame]) *Pipeline {
	return &Pipeline{
		index:      index,
		registry:   registry,
		retransmit: retransmit,
		egress:     egress,
		retained:   make(map[uint16]RetainedMessage),
		qos2:       make(map[qos2Key]qos2Entry),
	}
}

func (p *Pipeline) send(to Endpoint, pkt packet.Packet) {
	data, err := packet.Encode(pkt)
	if err != nil {
		log.Printf("mqtt-sn: encode %T for %s: %v", pkt, to, err)
		return
	}
	p.egress.push(egressFrame{to: to, data: data})
}

func (p *Pipeline) updateRetained(topicID uint16, flags packet.Flags, msgID uint16, data []byte) {
	if !flags.Retain {
		return
	}
	p.retainedMu.Lock()
	defer p.retainedMu.Unlock()
	if len(data) == 0 {
		delete(p.retained, topicID)
		return
	}
	p.retained[topicID] = RetainedMessage{QoS: flags.QoS, MsgID: msgID, Payload: append([]byte(nil), data...)}
}

// DeliverRetained sends topicID's retained message, if any, to ep at
// subQoS with RETAIN cleared (§4.2, §4.5 "standard MQTT semantics").
func (p *Pipeline) DeliverRetained(ep Endpoint, topicID uint16, subQoS int8) {
	p.retainedMu.RLock()
	msg, ok := p.retained[topicID]
	p.retainedMu.RUnlock()
	if !ok {
		return
	}
	p.deliverTo(ep, topicID, subQoS, msg.Payload, false)
}

// fanOut sends a fresh PUBLISH, at each subscriber's own QoS, to every
// subscriber of topicID (§4.5 "Fan-out").
func (p *Pipeline) fanOut(topicID uint16, retain bool, data []byte) {
	for _, sub := range p.index.EndpointsForPublishID(topicID) {
		p.deliverTo(sub.Endpoint, topicID, sub.QoS, data, retain)
	}
}

func (p *Pipeline) deliverTo(ep Endpoint, topicID uint16, qos int8, data []byte, retain bool) {
	conn, ok := p.registry.Get(ep)
	if !ok {
		return
	}
	var msgID uint16
	if qos > 0 {
		conn.MsgID++
		msgID = conn.MsgID
	}
	pub := &packet.Publish{
		Flags: packet.Flags{QoS: qos, Retain: retain, TopicIDType: packet.TopicIDTypeNormal},
		TopicID: topicID,
		MsgID:   msgID,
		Data:    data,
	}
	p.send(ep, pub)
	if qos > 0 {
		encoded, err := packet.Encode(pub)
		if err != nil {
			log.Printf("mqtt-sn: encode retry copy for %s: %v", ep, err)
			return
		}
		// PUBACK carries the topic-id, so QoS-1's cancel key must keep it;
		// PUBREC carries none, so QoS-2's key uses TopicID 0 to match the
		// cancel in handlePubRec (only endpoint+msg-id identify a PUBREC).
		key := RetransmitKey{Endpoint: ep, ExpectAck: packet.PUBACK, TopicID: topicID, MsgID: msgID}
		if qos == 2 {
			key = RetransmitKey{Endpoint: ep, ExpectAck: packet.PUBREC, MsgID: msgID}
		}
		p.retransmit.Arm(key, encoded)
	}
}

// HandlePublishQoS0 fans out immediately and updates the retained cache
// if RETAIN is set (§4.5).
func (p *Pipeline) HandlePublishQoS0(topicID uint16, flags packet.Flags, data []byte) {
	p.updateRetained(topicID, flags, 0, data)
	p.fanOut(topicID, flags.Retain, data)
}

// HandlePublishQoS1 acks the publisher, updates the retained cache, and
// fans out (§4.5).
func (p *Pipeline) HandlePublishQoS1(from Endpoint, topicID uint16, msgID uint16, flags packet.Flags, data []byte) {
	p.send(from, &packet.PubAck{TopicID: topicID, MsgID: msgID, ReturnCode: packet.RCAccepted.Code})
	p.updateRetained(topicID, flags, msgID, data)
	p.fanOut(topicID, flags.Retain, data)
}

// HandlePublishQoS2 implements §4.5 steps 1-4: ack with PUBREC, arm the
// PUBREC retransmit, and snapshot the subscriber list for fan-out at
// PUBREL time — it never fans out here.
func (p *Pipeline) HandlePublishQoS2(from Endpoint, topicID uint16, msgID uint16, data []byte) {
	p.send(from, &packet.PubRec{MsgID: msgID})

	encoded, err := packet.Encode(&packet.PubRec{MsgID: msgID})
	if err == nil {
		p.retransmit.Arm(RetransmitKey{Endpoint: from, ExpectAck: packet.PUBREL, MsgID: msgID}, encoded)
	}

	p.qos2mu.Lock()
	p.qos2[qos2Key{Publisher: from, MsgID: msgID}] = qos2Entry{
		topicID:     topicID,
		data:        append([]byte(nil), data...),
		subscribers: p.index.EndpointsForPublishID(topicID),
	}
	p.qos2mu.Unlock()
}

// HandlePubRel cancels the PUBREC retransmit, consumes the QoS-2 cache
// entry and fans out to the frozen subscriber list, then replies with
// PUBCOMP regardless of whether an entry was found (§4.5).
func (p *Pipeline) HandlePubRel(from Endpoint, msgID uint16) {
	p.retransmit.Cancel(RetransmitKey{Endpoint: from, ExpectAck: packet.PUBREL, MsgID: msgID})

	key := qos2Key{Publisher: from, MsgID: msgID}
	p.qos2mu.Lock()
	entry, ok := p.qos2[key]
	if ok {
		delete(p.qos2, key)
	}
	p.qos2mu.Unlock()

	p.send(from, &packet.PubComp{MsgID: msgID})
	if !ok {
		return
	}
	for _, sub := range entry.subscribers {
		p.deliverTo(sub.Endpoint, entry.topicID, sub.QoS, entry.data, false)
	}
}

// PublishWill implements willPublisher for the keep-alive wheel (§4.4):
// a lost connection's will is published like any other message, from the
// broker itself, so there is no publisher endpoint to ack.
func (p *Pipeline) PublishWill(topicName []byte, qos int8, message []byte) {
	id, err := p.index.RegisterName(string(topicName))
	if err != nil {
		log.Printf("mqtt-sn: will publish: %v", err)
		return
	}
	p.fanOut(id, false, message)
}
