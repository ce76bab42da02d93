package mqttsn

import (
	"fmt"
	"log"

	"github.com/mqtt-sn/broker/packet"
)

// errOutOfState reports a PDU received while its connection was absent or
// in the wrong state (§4.6 "Unknown or out-of-state PDUs log an error and
// are dropped (no reply)"). The dispatch loop logs and drops; it never
// closes the connection (§7).
func errOutOfState(ep Endpoint, msgType byte, c *Conn) error {
	state := "none"
	if c != nil {
		state = c.State.String()
	}
	return fmt.Errorf("mqtt-sn: %s from %s in state %s: out of state", packet.Kind[msgType], ep, state)
}

// handlerFunc is the per-PDU handler contract (§4.6): decoded packet in,
// connection record (nil if the endpoint isn't registered yet), broker-wide
// components to mutate. Replies, if any, go out via b.pipeline/b.send —
// handlers never touch the socket (§4.7).
type handlerFunc func(b *Broker, ep Endpoint, conn *Conn, pkt packet.Packet) error

// dispatch maps a message type to its handler. Built once at init; every
// PDU kind the broker handles appears here, CONNECT included. The ingress
// worker looks handlers up in this table for known and unknown endpoints
// alike, and lets only CONNECT and QoS-0 PUBLISH through from an endpoint
// with no connection record (§4.7).
var dispatch = map[byte]handlerFunc{
	packet.CONNECT:       handleConnect,
	packet.WILLTOPIC:     handleWillTopic,
	packet.WILLMSG:       handleWillMsg,
	packet.REGISTER:      handleRegister,
	packet.SUBSCRIBE:     handleSubscribe,
	packet.UNSUBSCRIBE:   handleUnsubscribe,
	packet.PUBLISH:       handlePublish,
	packet.PUBACK:        handlePubAck,
	packet.PUBREC:        handlePubRec,
	packet.PUBREL:        handlePubRel,
	packet.PUBCOMP:       handlePubComp,
	packet.PINGREQ:       handlePingReq,
	packet.DISCONNECT:    handleDisconnect,
	packet.WILLTOPICUPD:  handleWillTopicUpd,
	packet.WILLMSGUPD:    handleWillMsgUpd,
}

func (b *Broker) send(to Endpoint, pkt packet.Packet) {
	data, err := packet.Encode(pkt)
	if err != nil {
		log.Printf("mqtt-sn: encode %T for %s: %v", pkt, to, err)
		return
	}
	b.egress.push(egressFrame{to: to, data: data})
}

// sendWithRetransmit sends pkt and arms a retransmit keyed by the ack type
// the handler is waiting for (§4.3 "Cancellation on ACK").
func (b *Broker) sendWithRetransmit(to Endpoint, pkt packet.Packet, expectAck byte, topicID, msgID uint16) {
	data, err := packet.Encode(pkt)
	if err != nil {
		log.Printf("mqtt-sn: encode %T for %s: %v", pkt, to, err)
		return
	}
	b.egress.push(egressFrame{to: to, data: data})
	b.retransmit.Arm(RetransmitKey{Endpoint: to, ExpectAck: expectAck, TopicID: topicID, MsgID: msgID}, data)
}

func (b *Broker) cancelRetransmit(to Endpoint, expectAck byte, topicID, msgID uint16) {
	b.retransmit.Cancel(RetransmitKey{Endpoint: to, ExpectAck: expectAck, TopicID: topicID, MsgID: msgID})
}
