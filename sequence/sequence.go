// Package sequence decodes the key sequence the minigame expects and makes up sequences
// when the real one cannot or should not be used.
package sequence

import (
	"errors"
	"fmt"
	"strings"

	"steamwork/input"
)

var ErrInvalidRawKey = errors.New("invalid raw sequence key")

// Alphabet is every key the minigame can ask for, in raw value order
var Alphabet = []input.Key{input.KeyA, input.KeyW, input.KeyD}

// Sequence is one round of keys. It is never modified once built.
type Sequence []input.Key

// Decode maps a raw buffer byte to its key
func Decode(raw byte) (input.Key, error) {
	if int(raw) >= len(Alphabet) {
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidRawKey, raw)
	}
	return Alphabet[raw], nil
}

// Encode is the inverse of Decode
func Encode(key input.Key) (byte, error) {
	for i, k := range Alphabet {
		if k == key {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s is not in the alphabet", ErrInvalidRawKey, key)
}

// DecodeAll decodes a whole raw buffer
func DecodeAll(raw []byte) (Sequence, error) {
	seq := make(Sequence, 0, len(raw))
	for i, b := range raw {
		k, err := Decode(b)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		seq = append(seq, k)
	}
	return seq, nil
}

var azerty = map[input.Key]input.Key{
	input.KeyA: input.KeyQ,
	input.KeyW: input.KeyZ,
	input.KeyD: input.KeyD,
}

// Remap translates a qwerty alphabet key to the key at the same position on an azerty layout
func Remap(key input.Key) input.Key {
	if k, ok := azerty[key]; ok {
		return k
	}
	return key
}

// Azerty returns a remapped copy of s
func (s Sequence) Azerty() Sequence {
	out := make(Sequence, len(s))
	for i, k := range s {
		out[i] = Remap(k)
	}
	return out
}

func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.String()
	}
	return strings.Join(parts, " ")
}
