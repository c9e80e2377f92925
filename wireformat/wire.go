// Package wireformat implements the self-describing block/transaction wire
// encoding fixed in spec §6: little-endian length-prefixed fields,
// bounds-checked on every length read so an overrun always yields
// DecodeError rather than an out-of-bounds read.
package wireformat

import (
	"encoding/binary"
	"fmt"

	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/types"
)

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.buf) {
		return fmt.Errorf("wireformat: overrun at %d needing %d of %d: %w", d.pos, n, len(d.buf), aerr.ErrDecode)
	}
	return nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) u64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) bytesN(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, d.buf[d.pos:d.pos+n])
	d.pos += n
	return b, nil
}

func (d *decoder) lenPrefixedBytes() ([]byte, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	return d.bytesN(int(n))
}

type encoder struct {
	buf []byte
}

func (e *encoder) putU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) putU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) putBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) putLenPrefixed(b []byte) {
	e.putU32(uint32(len(b)))
	e.putBytes(b)
}

// EncodeTransaction serializes a transaction per the §6 wire format.
func EncodeTransaction(tx *types.Transaction) []byte {
	e := &encoder{}
	encodeTxInto(e, tx)
	return e.buf
}

func encodeTxInto(e *encoder, tx *types.Transaction) {
	e.putLenPrefixed([]byte(tx.Sender))
	e.putLenPrefixed([]byte(tx.Receiver))
	e.putU64(tx.Amount)
	e.putU64(tx.Nonce)
	e.putU64(tx.GasLimit)
	e.putU64(tx.GasPrice)
	e.putLenPrefixed(tx.Data)
	e.putLenPrefixed(tx.Signature[:])
}

func decodeTx(d *decoder) (*types.Transaction, error) {
	sender, err := d.lenPrefixedBytes()
	if err != nil {
		return nil, err
	}
	receiver, err := d.lenPrefixedBytes()
	if err != nil {
		return nil, err
	}
	amount, err := d.u64()
	if err != nil {
		return nil, err
	}
	nonce, err := d.u64()
	if err != nil {
		return nil, err
	}
	gasLimit, err := d.u64()
	if err != nil {
		return nil, err
	}
	gasPrice, err := d.u64()
	if err != nil {
		return nil, err
	}
	data, err := d.lenPrefixedBytes()
	if err != nil {
		return nil, err
	}
	sig, err := d.lenPrefixedBytes()
	if err != nil {
		return nil, err
	}
	tx := &types.Transaction{
		Sender:   types.Address(sender),
		Receiver: types.Address(receiver),
		Amount:   amount,
		Nonce:    nonce,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	}
	copy(tx.Signature[:], sig)
	tx.ComputeHash()
	return tx, nil
}

// DecodeTransaction parses a single wire-format transaction.
func DecodeTransaction(buf []byte) (*types.Transaction, error) {
	d := &decoder{buf: buf}
	return decodeTx(d)
}

// EncodeBlock serializes a block per the §6 wire format.
func EncodeBlock(b *types.Block) []byte {
	e := &encoder{}
	h := b.Header
	e.putU64(h.Height)
	e.putU64(h.Timestamp)
	e.putBytes(h.PreviousHash[:])
	e.putBytes(h.StateRoot[:])
	e.putBytes(h.TxRoot[:])
	e.putLenPrefixed([]byte(h.Producer))
	e.putBytes(h.Signature[:])

	e.putU32(uint32(len(b.Txs)))
	for _, tx := range b.Txs {
		sub := &encoder{}
		encodeTxInto(sub, tx)
		e.putLenPrefixed(sub.buf)
	}
	return e.buf
}

// DecodeBlock parses a wire-format block, bounds-checking every length
// read; any overrun yields DecodeError.
func DecodeBlock(buf []byte) (*types.Block, error) {
	d := &decoder{buf: buf}
	var h types.BlockHeader
	var err error
	if h.Height, err = d.u64(); err != nil {
		return nil, err
	}
	if h.Timestamp, err = d.u64(); err != nil {
		return nil, err
	}
	prevHash, err := d.bytesN(32)
	if err != nil {
		return nil, err
	}
	copy(h.PreviousHash[:], prevHash)
	stateRoot, err := d.bytesN(32)
	if err != nil {
		return nil, err
	}
	copy(h.StateRoot[:], stateRoot)
	txRoot, err := d.bytesN(32)
	if err != nil {
		return nil, err
	}
	copy(h.TxRoot[:], txRoot)
	producer, err := d.lenPrefixedBytes()
	if err != nil {
		return nil, err
	}
	h.Producer = types.Address(producer)
	sig, err := d.bytesN(64)
	if err != nil {
		return nil, err
	}
	copy(h.Signature[:], sig)

	txCount, err := d.u32()
	if err != nil {
		return nil, err
	}
	txs := make([]*types.Transaction, 0, txCount)
	for i := uint32(0); i < txCount; i++ {
		txBytes, err := d.lenPrefixedBytes()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTransaction(txBytes)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return &types.Block{Header: h, Txs: txs}, nil
}
