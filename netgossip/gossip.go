// Package netgossip implements the line-framed peer gossip message format
// fixed in spec §6: typeCode(int)|timestamp(u64)|senderId|payload.
// Grounded on the teacher's network/tcp.go TCP send/receive loop, replacing
// its JSON TCPMessage envelope with the spec's pipe-delimited framing.
package netgossip

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aegenchain/aegen-core/aerr"
)

var log = logrus.WithField("component", "netgossip")

// MessageType is the typeCode in a gossip frame.
type MessageType int

const (
	TypeVote  MessageType = 1
	TypeBlock MessageType = 2
)

// Message is a decoded peer gossip frame.
type Message struct {
	Type      MessageType
	Timestamp uint64
	SenderID  string
	Payload   string
}

// Encode renders m as one line (without trailing newline) per spec §6.
func (m Message) Encode() string {
	return fmt.Sprintf("%d|%d|%s|%s", m.Type, m.Timestamp, m.SenderID, m.Payload)
}

// Decode parses one line into a Message.
func Decode(line string) (Message, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) != 4 {
		return Message{}, fmt.Errorf("netgossip: malformed frame: %w", aerr.ErrDecode)
	}
	typeCode, err := strconv.Atoi(parts[0])
	if err != nil {
		return Message{}, fmt.Errorf("netgossip: bad typeCode: %w", aerr.ErrDecode)
	}
	ts, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("netgossip: bad timestamp: %w", aerr.ErrDecode)
	}
	return Message{Type: MessageType(typeCode), Timestamp: ts, SenderID: parts[2], Payload: parts[3]}, nil
}

// EncodeVotePayload renders phase|voterId|hex(blockHash)|approve.
func EncodeVotePayload(phase, voterID string, blockHash [32]byte, approve bool) string {
	a := "0"
	if approve {
		a = "1"
	}
	return fmt.Sprintf("%s|%s|%s|%s", phase, voterID, hex.EncodeToString(blockHash[:]), a)
}

// EncodeBlockPayload hex-encodes wire-format block bytes for the BLOCK
// message type.
func EncodeBlockPayload(blockWire []byte) string {
	return hex.EncodeToString(blockWire)
}

// Send writes one framed line to conn.
func Send(conn net.Conn, m Message) error {
	_, err := fmt.Fprintf(conn, "%s\n", m.Encode())
	if err != nil {
		return fmt.Errorf("netgossip: send: %w", err)
	}
	return nil
}

// ServeConn reads framed lines from conn until EOF or error, dispatching
// each decoded Message to handle. Network I/O never runs while holding the
// consensus or chain-tip lock, per spec §5 — handle is responsible for
// keeping that discipline.
func ServeConn(conn net.Conn, handle func(Message)) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		msg, err := Decode(line)
		if err != nil {
			log.WithError(err).Warn("dropping malformed gossip frame")
			continue
		}
		handle(msg)
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("gossip connection closed with error")
	}
}
