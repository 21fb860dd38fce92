// Package ingress is the wire protocol and TCP server that feed
// book.Book/engine.Engine from the network: a fixed BigEndian header,
// fixed-width body, and a length-derived variable trailer for the
// trader name.
package ingress

import (
	"encoding/binary"
	"errors"
	"strings"
)

// MessageType tags the fixed 2-byte request header.
type MessageType uint16

const (
	TypeNewOrder MessageType = iota
	TypeCancelOrder
)

var (
	ErrMessageTooShort    = errors.New("ingress: message too short")
	ErrInvalidMessageType = errors.New("ingress: invalid message type")
)

const (
	headerLen = 2

	// token(16) + symbol(4) + side(1) + size(4) + price(4) + traderLen(1)
	newOrderFixedLen = 16 + 4 + 1 + 4 + 4 + 1
	// symbol(4) + orderID(8)
	cancelOrderFixedLen = 4 + 8
)

// NewOrderRequest is the decoded body of a TypeNewOrder message.
// RequestToken is an opaque client-minted token (a uuid.UUID's raw bytes
// in practice); ingress derives the core's required u64 order id from it.
type NewOrderRequest struct {
	RequestToken [16]byte
	Symbol       string
	IsBuy        bool
	Size         int32
	Price        int32
	Trader       string
}

// CancelOrderRequest is the decoded body of a TypeCancelOrder message.
type CancelOrderRequest struct {
	Symbol  string
	OrderID uint64
}

// ParseMessage decodes msg's header and dispatches to the matching body
// parser, returning either a *NewOrderRequest or a *CancelOrderRequest.
func ParseMessage(msg []byte) (any, error) {
	if len(msg) < headerLen {
		return nil, ErrMessageTooShort
	}
	typ := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[headerLen:]
	switch typ {
	case TypeNewOrder:
		return parseNewOrder(body)
	case TypeCancelOrder:
		return parseCancelOrder(body)
	default:
		return nil, ErrInvalidMessageType
	}
}

func parseNewOrder(b []byte) (*NewOrderRequest, error) {
	if len(b) < newOrderFixedLen {
		return nil, ErrMessageTooShort
	}
	req := &NewOrderRequest{
		Symbol: trimNulls(string(b[16:20])),
		IsBuy:  b[20] == 0,
		Size:   int32(binary.BigEndian.Uint32(b[21:25])),
		Price:  int32(binary.BigEndian.Uint32(b[25:29])),
	}
	copy(req.RequestToken[:], b[0:16])

	traderLen := int(b[29])
	if len(b) < newOrderFixedLen+traderLen {
		return nil, ErrMessageTooShort
	}
	req.Trader = string(b[30 : 30+traderLen])
	return req, nil
}

func parseCancelOrder(b []byte) (*CancelOrderRequest, error) {
	if len(b) < cancelOrderFixedLen {
		return nil, ErrMessageTooShort
	}
	return &CancelOrderRequest{
		Symbol:  trimNulls(string(b[0:4])),
		OrderID: binary.BigEndian.Uint64(b[4:12]),
	}, nil
}

// EncodeNewOrder is the client-side counterpart of parseNewOrder.
func EncodeNewOrder(req NewOrderRequest) []byte {
	trader := []byte(req.Trader)
	buf := make([]byte, headerLen+newOrderFixedLen+len(trader))

	binary.BigEndian.PutUint16(buf[0:2], uint16(TypeNewOrder))
	copy(buf[2:18], req.RequestToken[:])
	copy(buf[18:22], padSymbol(req.Symbol))
	if !req.IsBuy {
		buf[22] = 1
	}
	binary.BigEndian.PutUint32(buf[23:27], uint32(req.Size))
	binary.BigEndian.PutUint32(buf[27:31], uint32(req.Price))
	buf[31] = byte(len(trader))
	copy(buf[32:], trader)
	return buf
}

// EncodeCancelOrder is the client-side counterpart of parseCancelOrder.
func EncodeCancelOrder(req CancelOrderRequest) []byte {
	buf := make([]byte, headerLen+cancelOrderFixedLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(TypeCancelOrder))
	copy(buf[2:6], padSymbol(req.Symbol))
	binary.BigEndian.PutUint64(buf[6:14], req.OrderID)
	return buf
}

func padSymbol(symbol string) []byte {
	b := make([]byte, 4)
	copy(b, symbol)
	return b
}

func trimNulls(s string) string {
	return strings.TrimRight(s, "\x00")
}
