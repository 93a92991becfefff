package vestingmsg

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/wire"
)

const (
	// addressLen is the serialized size of an address: workchain + account id.
	addressLen = 33
	// maxCoinsLen bounds coin amounts to 128 bits.
	maxCoinsLen = 16
	// maxVarBytes bounds nested payloads and code blobs.
	maxVarBytes = 64 * 1024
	headerLen   = 12
)

var (
	// ErrEmptyBody is returned when decoding a message without body.
	ErrEmptyBody = errors.New("message body is empty")
	// ErrShortBody is returned when a body is too short to hold op and query id.
	ErrShortBody = errors.New("message body too short")
	// ErrUnknownOp is returned when the opcode is not handled by the target.
	ErrUnknownOp = errors.New("unknown opcode")
	// ErrTrailingBytes is returned when a body has more data than its layout.
	ErrTrailingBytes = errors.New("unexpected trailing bytes in message body")
	// ErrInvalidAddress is returned for malformed address fields.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidCoins is returned for negative or oversized coin amounts.
	ErrInvalidCoins = errors.New("coin amount must be a non negative 128 bit integer")
)

// Body is a typed message body identified by its opcode.
type Body interface {
	Op() uint32
	encode(w *writer)
	decode(r *reader)
}

// Header is the common prefix of every internal message body.
type Header struct {
	Op      uint32
	QueryID uint64
}

// ExternalHeader prefixes sequence-number gated external messages.
type ExternalHeader struct {
	Seqno      uint32
	ValidUntil uint32
}

type opTable map[uint32]func() Body

// Encode serializes body as op, query id and the body fields.
func Encode(queryID uint64, body Body) ([]byte, error) {
	w := &writer{}
	w.uint32(body.Op())
	w.uint64(queryID)
	body.encode(w)
	if w.err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", OpName(body.Op()), w.err)
	}
	return w.buf.Bytes(), nil
}

// EncodeExternal serializes body behind the replay protection header.
func EncodeExternal(
	ext ExternalHeader, queryID uint64, body Body,
) ([]byte, error) {
	inner, err := Encode(queryID, body)
	if err != nil {
		return nil, err
	}
	w := &writer{}
	w.uint32(ext.Seqno)
	w.uint32(ext.ValidUntil)
	w.raw(inner)
	return w.buf.Bytes(), w.err
}

// ReadHeader returns the op and query id of raw without decoding the fields.
func ReadHeader(raw []byte) (Header, error) {
	if len(raw) == 0 {
		return Header{}, ErrEmptyBody
	}
	if len(raw) < headerLen {
		return Header{}, ErrShortBody
	}
	return Header{
		Op:      binary.BigEndian.Uint32(raw[:4]),
		QueryID: binary.BigEndian.Uint64(raw[4:headerLen]),
	}, nil
}

// ReadExternalHeader splits an external message into its replay header and
// the inner internal-style body.
func ReadExternalHeader(raw []byte) (ExternalHeader, []byte, error) {
	if len(raw) == 0 {
		return ExternalHeader{}, nil, ErrEmptyBody
	}
	if len(raw) < 8+headerLen {
		return ExternalHeader{}, nil, ErrShortBody
	}
	return ExternalHeader{
		Seqno:      binary.BigEndian.Uint32(raw[:4]),
		ValidUntil: binary.BigEndian.Uint32(raw[4:8]),
	}, raw[8:], nil
}

func decodeWith(raw []byte, table opTable) (Header, Body, error) {
	header, err := ReadHeader(raw)
	if err != nil {
		return Header{}, nil, err
	}
	newBody, ok := table[header.Op]
	if !ok {
		return header, nil, ErrUnknownOp
	}
	body := newBody()
	r := newReader(raw[headerLen:])
	body.decode(r)
	if err := r.finish(); err != nil {
		return header, nil, fmt.Errorf(
			"failed to decode %s: %w", OpName(header.Op), err,
		)
	}
	return header, body, nil
}

// ParseAddress validates s as <workchain>:<64 hex chars> and returns its
// canonical lowercase form.
func ParseAddress(s string) (string, error) {
	wc, id, err := splitAddress(s)
	if err != nil {
		return "", err
	}
	return formatAddress(wc, id), nil
}

func splitAddress(s string) (int8, []byte, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, nil, ErrInvalidAddress
	}
	wc, err := strconv.ParseInt(parts[0], 10, 8)
	if err != nil {
		return 0, nil, ErrInvalidAddress
	}
	id, err := hex.DecodeString(parts[1])
	if err != nil || len(id) != addressLen-1 {
		return 0, nil, ErrInvalidAddress
	}
	return int8(wc), id, nil
}

func formatAddress(wc int8, id []byte) string {
	return fmt.Sprintf("%d:%s", wc, hex.EncodeToString(id))
}

func formatOp(op uint32) string {
	return fmt.Sprintf("0x%08x", op)
}

type writer struct {
	buf bytes.Buffer
	err error
}

func (w *writer) raw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf.Write(b)
}

func (w *writer) uint8(v uint8) {
	w.raw([]byte{v})
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.raw(b[:])
}

func (w *writer) uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.raw(b[:])
}

func (w *writer) bool(v bool) {
	if v {
		w.uint8(1)
		return
	}
	w.uint8(0)
}

func (w *writer) address(s string) {
	if w.err != nil {
		return
	}
	wc, id, err := splitAddress(s)
	if err != nil {
		w.err = fmt.Errorf("%w: %q", err, s)
		return
	}
	w.uint8(uint8(wc))
	w.raw(id)
}

func (w *writer) coins(v *big.Int) {
	if w.err != nil {
		return
	}
	if v == nil {
		w.uint8(0)
		return
	}
	if v.Sign() < 0 || v.BitLen() > maxCoinsLen*8 {
		w.err = ErrInvalidCoins
		return
	}
	b := v.Bytes()
	w.uint8(uint8(len(b)))
	w.raw(b)
}

func (w *writer) bytes(b []byte) {
	if w.err != nil {
		return
	}
	if len(b) > maxVarBytes {
		w.err = fmt.Errorf("payload exceeds %d bytes", maxVarBytes)
		return
	}
	w.err = wire.WriteVarBytes(&w.buf, 0, b)
}

type reader struct {
	r   *bytes.Reader
	err error
}

func newReader(b []byte) *reader {
	return &reader{r: bytes.NewReader(b)}
}

func (r *reader) read(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = io.ErrUnexpectedEOF
	}
	return b
}

func (r *reader) uint8() uint8 {
	return r.read(1)[0]
}

func (r *reader) uint32() uint32 {
	return binary.BigEndian.Uint32(r.read(4))
}

func (r *reader) uint64() uint64 {
	return binary.BigEndian.Uint64(r.read(8))
}

func (r *reader) bool() bool {
	v := r.uint8()
	if r.err == nil && v > 1 {
		r.err = fmt.Errorf("invalid boolean value %d", v)
	}
	return v == 1
}

func (r *reader) address() string {
	b := r.read(addressLen)
	if r.err != nil {
		return ""
	}
	return formatAddress(int8(b[0]), b[1:])
}

func (r *reader) coins() *big.Int {
	n := int(r.uint8())
	if r.err == nil && n > maxCoinsLen {
		r.err = ErrInvalidCoins
	}
	if r.err != nil {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(r.read(n))
}

func (r *reader) bytes() []byte {
	if r.err != nil {
		return nil
	}
	b, err := wire.ReadVarBytes(r.r, 0, maxVarBytes, "payload")
	if err != nil {
		r.err = err
		return nil
	}
	if len(b) == 0 {
		return nil
	}
	return b
}

func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.r.Len() > 0 {
		return ErrTrailingBytes
	}
	return nil
}
