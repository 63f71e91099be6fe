// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"unicode/utf8"

	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

// Encoder converts a character ring into a byte ring for a single
// character set fixed at construction; the mirror image of Decoder.
type Encoder struct {
	charset  CharacterSet
	chars    *ring.CharRing
	bytes    *ring.ByteRing
	path     Path
	scratch  [MaxCodepointBytes]byte
	scratchN int
	xform    transformerEncoder // non-nil for UTF-16 sets
	failed   bool
}

// transformerEncoder is the subset of transform.Transformer used by
// the UTF-16 encode path.
type transformerEncoder interface {
	Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error)
}

// NewEncoder constructs an Encoder reading characters from c and
// writing encoded bytes to b.
func NewEncoder(charset CharacterSet, c *ring.CharRing, b *ring.ByteRing) (*Encoder, error) {
	if b == nil || c == nil {
		return nil, fmt.Errorf("codec: %w", errNilRing)
	}
	e := &Encoder{charset: charset, chars: c, bytes: b}
	if enc := charset.textEncoding(); enc != nil {
		e.xform = enc.NewEncoder()
	}
	return e, nil
}

// Input returns the character ring the encoder reads from.
func (e *Encoder) Input() *ring.CharRing { return e.chars }

// Output returns the byte ring the encoder writes into.
func (e *Encoder) Output() *ring.ByteRing { return e.bytes }

// Agent wraps the encoder in an sched.Agent driving it via
// ReadyRunner, state fixed to the encoder itself.
func (e *Encoder) Agent() *sched.Agent[*Encoder, int] {
	return sched.NewAgent(e, encoderHooks{})
}

type encoderHooks struct{}

func (encoderHooks) Ready(e *Encoder) bool         { return e.ready() }
func (encoderHooks) Done(e *Encoder) bool          { return e.done() }
func (encoderHooks) Action(e *Encoder) (int, error) { return e.step() }

func (e *Encoder) ready() bool {
	if e.failed || e.bytes.EOS() {
		return false
	}
	if e.path == ScratchPath {
		return e.scratchN > 0
	}
	if e.chars.EOS() && e.chars.AvailableToRead() == 0 {
		return true // stepMain latches EOS on the byte ring
	}
	return e.chars.AvailableToReadStraight() > 0 && e.bytes.AvailableToWriteStraight() > 0
}

func (e *Encoder) done() bool {
	return e.bytes.EOS()
}

func (e *Encoder) step() (int, error) {
	if e.path == ScratchPath {
		return e.flushScratch()
	}
	return e.stepMain()
}

// stepMain tries to encode directly from the character ring into the
// byte ring's straight run. If the next character would not fit in
// the tail straight run but the byte ring has room overall (i.e. at
// its head, after wrapping), it encodes one character into scratch
// and switches to ScratchPath to drain it byte-by-byte, per §4.F.
func (e *Encoder) stepMain() (int, error) {
	src := e.chars.ReadSlice()
	dst := e.bytes.WriteSlice()
	if len(src) == 0 {
		if e.chars.EOS() {
			e.bytes.SetEOS()
		}
		return 0, nil
	}
	if len(dst) == 0 {
		return 0, nil
	}

	consumed, produced, short, err := e.encodeFrom(dst, src)
	if err != nil {
		e.failed = true
		return 0, fmt.Errorf("%w", err)
	}
	if produced > 0 {
		e.chars.AdvanceRead(uint64(consumed))
		e.bytes.AdvanceWrite(uint64(produced))
		return produced, nil
	}
	if !short {
		return 0, nil
	}

	// Nothing fit in the tail straight run; encode one character into
	// scratch and drain it through the ring head a byte at a time.
	c, ok := e.chars.Peek(0)
	if !ok {
		return 0, nil
	}
	n, eerr := e.encodeRune(e.scratch[:], c)
	if eerr != nil {
		e.failed = true
		return 0, fmt.Errorf("%w", eerr)
	}
	e.chars.AdvanceRead(1)
	e.scratchN = n
	e.path = ScratchPath
	return 0, nil
}

func (e *Encoder) flushScratch() (int, error) {
	if e.bytes.AvailableToWrite() == 0 {
		return 0, nil
	}
	if ok := e.bytes.Write(e.scratch[0]); !ok {
		return 0, nil
	}
	copy(e.scratch[:], e.scratch[1:e.scratchN])
	e.scratchN--
	if e.scratchN == 0 {
		e.path = MainPath
	}
	return 1, nil
}

// encodeFrom encodes as many characters from src into dst (capped by
// len(dst)) as possible. short=true (with produced=0) means the very
// first character could not be encoded into the remaining straight
// run, either because it didn't fit or because encodeRune rejected it,
// signaling the caller to fall back to the scratch path (which then
// reports any encode error).
func (e *Encoder) encodeFrom(dst []byte, src []rune) (consumed, produced int, short bool, err error) {
	for consumed < len(src) {
		c := src[consumed]
		n, eerr := e.encodeRune(dst[produced:], c)
		if eerr != nil {
			if produced == 0 && consumed == 0 {
				return 0, 0, true, nil
			}
			return consumed, produced, false, eerr
		}
		if n == 0 {
			if produced == 0 {
				return 0, 0, true, nil
			}
			break
		}
		produced += n
		consumed++
	}
	return consumed, produced, false, nil
}

func (e *Encoder) encodeRune(dst []byte, c rune) (int, error) {
	switch e.charset {
	case ASCII:
		if c > 0x7F {
			return 0, fmt.Errorf("%w: rune %q is not representable in US-ASCII", ErrEncode, c)
		}
		if len(dst) < 1 {
			return 0, nil
		}
		dst[0] = byte(c)
		return 1, nil
	case UTF8:
		need := utf8.RuneLen(c)
		if need < 0 {
			return 0, fmt.Errorf("%w: invalid rune %q", ErrEncode, c)
		}
		if len(dst) < need {
			return 0, nil
		}
		return utf8.EncodeRune(dst, c), nil
	default:
		var u [4]byte
		un := utf8.EncodeRune(u[:], c)
		nDst, _, terr := e.xform.Transform(dst, u[:un], true)
		if terr != nil {
			if len(dst) >= MaxCodepointBytes {
				return 0, fmt.Errorf("%w: %v", ErrEncode, terr)
			}
			return 0, nil
		}
		return nDst, nil
	}
}
