package sequence

import (
	"fmt"
	"math/rand/v2"

	"steamwork/process"
	"steamwork/steamworks"
)

// Source tells where a round's sequence came from
type Source string

const (
	FromMemory Source = "memory"
	FromRandom Source = "random"
	// A deliberate miss drawn by the success-rate policy
	FromMiss Source = "miss"
)

// Policy decides how often the correct sequence is entered when RandomRun is set.
// Rates are probabilities in [0, 1].
type Policy struct {
	RandomRun         bool
	CommonSuccessRate float64
	RareSuccessRate   float64
}

// Extractor produces the sequence for each round
type Extractor struct {
	proc   process.Process
	layout steamworks.Layout
	length int
	policy Policy
	rng    *rand.Rand
}

// NewExtractor builds an extractor. length is the size of made up sequences, rng may be nil.
func NewExtractor(proc process.Process, layout steamworks.Layout, length int, policy Policy, rng *rand.Rand) *Extractor {
	if length <= 0 {
		length = layout.SequenceSlots
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Extractor{
		proc:   proc,
		layout: layout,
		length: length,
		policy: policy,
		rng:    rng,
	}
}

// Extract reads and decodes the sequence the game currently expects
func (e *Extractor) Extract(addrs steamworks.Addresses) (Sequence, error) {
	raw, err := steamworks.ReadSequenceBytes(e.proc, addrs, e.layout.SequenceSlots)
	if err != nil {
		return nil, err
	}
	return DecodeAll(raw)
}

// Random draws every key uniformly from the alphabet
func (e *Extractor) Random() Sequence {
	seq := make(Sequence, e.length)
	for i := range seq {
		seq[i] = Alphabet[e.rng.IntN(len(Alphabet))]
	}
	return seq
}

// Next returns the sequence to enter this round. Builds that are not supported always get
// a random sequence; supported builds get the real one unless the policy draws a miss.
func (e *Extractor) Next(addrs steamworks.Addresses, supported bool) (Sequence, Source, error) {
	if !supported {
		return e.Random(), FromRandom, nil
	}

	correct, err := e.Extract(addrs)
	if err != nil {
		return nil, "", err
	}
	if !e.policy.RandomRun {
		return correct, FromMemory, nil
	}

	rarity, err := steamworks.ReadRarity(e.proc, addrs)
	if err != nil {
		return nil, "", fmt.Errorf("read rarity: %w", err)
	}

	rate := e.policy.CommonSuccessRate
	if rarity == e.layout.RareValue {
		rate = e.policy.RareSuccessRate
	}
	if e.rng.Float64() < rate {
		return correct, FromMemory, nil
	}
	return e.missOf(correct), FromMiss, nil
}

// missOf returns a random sequence of the same length that differs from correct
func (e *Extractor) missOf(correct Sequence) Sequence {
	miss := make(Sequence, len(correct))
	for i := range miss {
		miss[i] = Alphabet[e.rng.IntN(len(Alphabet))]
	}
	if len(miss) > 0 && miss.Equal(correct) {
		// shift one slot to the next alphabet key
		i := e.rng.IntN(len(miss))
		raw, _ := Encode(miss[i])
		miss[i] = Alphabet[(int(raw)+1)%len(Alphabet)]
	}
	return miss
}
