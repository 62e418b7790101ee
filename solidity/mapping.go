// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// Key is anything usable as a mapping key.
type Key interface {
	Bytes() []byte
}

// Index adapts a numeric index into a mapping key.
type Index uint64

func (i Index) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i))
	return b[:]
}

// Mapping is a key/value storage abstraction, similar to the mapping in Solidity.
// Values are rlp-encoded at a slot position derived from the base slot and the key.
type Mapping[K Key, V any] struct {
	context *Context
	basePos lordchain.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos lordchain.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) lordchain.Bytes32 {
	return lordchain.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	if reflect.ValueOf(&value).Elem().Kind() == reflect.Ptr {
		value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
	}
	raw := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if len(raw) == 0 {
		return value, nil
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		var zero V
		return zero, errors.Wrap(err, "decode mapping value")
	}
	return value, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode mapping value")
	}
	m.context.state.SetRawStorage(m.context.address, m.position(key), raw)
	return nil
}

// Delete clears the value stored for the key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

// Array is an append-only list of rlp-encoded values, stored as a length
// slot plus one slot per index.
type Array[V any] struct {
	items *Mapping[Index, V]
	count *Uint64
}

func NewArray[V any](context *Context, pos lordchain.Bytes32) *Array[V] {
	return &Array[V]{
		items: NewMapping[Index, V](context, pos),
		count: NewUint64(context, lordchain.Blake2b(pos.Bytes(), []byte("length"))),
	}
}

func (a *Array[V]) Len() uint64 {
	return a.count.Get()
}

func (a *Array[V]) Get(i uint64) (V, error) {
	return a.items.Get(Index(i))
}

func (a *Array[V]) Set(i uint64, value V) error {
	return a.items.Set(Index(i), value)
}

// Append adds a value at the tail and returns its index.
func (a *Array[V]) Append(value V) (uint64, error) {
	i := a.count.Get()
	if err := a.items.Set(Index(i), value); err != nil {
		return 0, err
	}
	a.count.Set(i + 1)
	return i, nil
}
