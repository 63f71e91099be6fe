// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

// Path is the decoder/encoder's two-state machine of §4.F.
type Path int

const (
	// MainPath operates directly on the ring's straight-run views.
	MainPath Path = iota
	// ScratchPath accumulates bytes one at a time in the scratch
	// buffer when a code point's encoding spans a ring wrap.
	ScratchPath
)

// Decoder converts a byte ring into a character ring for a single
// character set fixed at construction, honoring §4.F's MainPath/
// ScratchPath state machine across ring wrap-arounds.
type Decoder struct {
	charset  CharacterSet
	bytes    *ring.ByteRing
	chars    *ring.CharRing
	path     Path
	scratch  [MaxCodepointBytes]byte
	scratchN int
	xform    transform.Transformer // non-nil for UTF-16 sets
	failed   bool
}

// NewDecoder constructs a Decoder reading bytes from b and writing
// decoded characters to c.
func NewDecoder(charset CharacterSet, b *ring.ByteRing, c *ring.CharRing) (*Decoder, error) {
	if b == nil || c == nil {
		return nil, fmt.Errorf("codec: %w", errNilRing)
	}
	d := &Decoder{charset: charset, bytes: b, chars: c}
	if enc := charset.textEncoding(); enc != nil {
		d.xform = enc.NewDecoder()
	}
	return d, nil
}

// Input returns the byte ring the decoder reads from.
func (d *Decoder) Input() *ring.ByteRing { return d.bytes }

// Output returns the character ring the decoder writes into.
func (d *Decoder) Output() *ring.CharRing { return d.chars }

// Agent wraps the decoder in an sched.Agent driving it via
// ReadyRunner, state fixed to the decoder itself.
func (d *Decoder) Agent() *sched.Agent[*Decoder, int] {
	return sched.NewAgent(d, decoderHooks{})
}

type decoderHooks struct{}

func (decoderHooks) Ready(d *Decoder) bool { return d.ready() }
func (decoderHooks) Done(d *Decoder) bool  { return d.done() }
func (decoderHooks) Action(d *Decoder) (int, error) { return d.step() }

func (d *Decoder) ready() bool {
	if d.failed || d.chars.EOS() {
		return false
	}
	if d.path == MainPath && d.bytes.EOS() && d.bytes.AvailableToRead() == 0 {
		return true // stepMain latches EOS on the character ring, full or not
	}
	if d.chars.AvailableToWriteStraight() == 0 {
		return false
	}
	return d.bytes.AvailableToReadStraight() > 0 || d.bytes.EOS()
}

func (d *Decoder) done() bool { return d.failed || d.chars.EOS() }

// step runs one Action invocation: one MainPath pass, or one
// ScratchPath byte-at-a-time attempt, per §4.F.
func (d *Decoder) step() (int, error) {
	if d.path == ScratchPath {
		return d.stepScratch()
	}
	return d.stepMain()
}

func (d *Decoder) stepMain() (int, error) {
	src := d.bytes.ReadSlice()
	dst := d.chars.WriteSlice()
	if len(src) == 0 {
		if d.bytes.EOS() {
			d.chars.SetEOS()
		}
		return 0, nil
	}
	if len(dst) == 0 {
		return 0, nil
	}

	consumed, produced, incomplete, err := d.decodeInto(dst, src, false)
	if err != nil {
		d.failed = true
		return 0, fmt.Errorf("%w", err)
	}
	d.bytes.AdvanceRead(uint64(consumed))
	d.chars.AdvanceWrite(uint64(produced))

	if incomplete {
		// Malformed at the physical end of the straight run: the
		// remaining bytes are a prefix of a longer sequence that may
		// continue after the ring wraps. Move them to scratch and
		// switch state, per §4.F.
		r := d.bytes.ReadSlice() // the residual r bytes not yet consumed
		if len(r) > MaxCodepointBytes {
			r = r[:MaxCodepointBytes]
		}
		copy(d.scratch[:], r)
		d.scratchN = len(r)
		d.bytes.AdvanceRead(uint64(len(r)))
		d.path = ScratchPath
		return produced, nil
	}

	if produced == 0 && consumed == 0 {
		if d.bytes.EOS() && d.bytes.AvailableToReadStraight() == 0 {
			d.chars.SetEOS()
		}
	}
	return produced, nil
}

func (d *Decoder) stepScratch() (int, error) {
	if d.scratchN >= MaxCodepointBytes {
		d.failed = true
		return 0, fmt.Errorf("%w: scratch buffer exhausted without a valid code point", ErrDecode)
	}
	b, ok := d.bytes.Read()
	if !ok {
		if d.bytes.EOS() {
			// Upstream latched EOS with a partial code point still
			// sitting in scratch: no further byte will ever arrive to
			// complete it, so this is the §4.F terminal case rather
			// than a wrap-around in progress.
			d.failed = true
			return 0, fmt.Errorf("%w: truncated multi-byte sequence at end of input", ErrDecode)
		}
		return 0, nil
	}
	d.scratch[d.scratchN] = byte(b)
	d.scratchN++

	dst := d.chars.WriteSlice()
	if len(dst) == 0 {
		return 0, nil
	}
	consumed, produced, incomplete, err := d.decodeInto(dst[:1], d.scratch[:d.scratchN], false)
	if err != nil {
		d.failed = true
		return 0, fmt.Errorf("%w", err)
	}
	if incomplete {
		// Still not a complete code point; stay in ScratchPath and
		// wait for the next byte.
		return 0, nil
	}
	if consumed < d.scratchN {
		// The codec resolved a code point out of a prefix of scratch;
		// shift the remainder down for the next attempt.
		copy(d.scratch[:], d.scratch[consumed:d.scratchN])
	}
	d.scratchN -= consumed
	d.chars.AdvanceWrite(uint64(produced))
	if d.scratchN == 0 {
		d.path = MainPath
	}
	return produced, nil
}

// decodeInto decodes as many complete code points from src into dst
// (capped by len(dst)) as possible, treating src as the final chunk
// iff atEOF. It returns bytes consumed, characters produced, and
// whether decoding stopped because the tail of src is an incomplete
// code point (the §4.F "malformed at the physical end" case, which is
// recoverable via the scratch path rather than terminal).
func (d *Decoder) decodeInto(dst []rune, src []byte, atEOF bool) (consumed, produced int, incomplete bool, err error) {
	switch d.charset {
	case ASCII:
		return decodeASCII(dst, src)
	case UTF8:
		return decodeUTF8(dst, src)
	default:
		return d.decodeUTF16(dst, src, atEOF)
	}
}

func decodeASCII(dst []rune, src []byte) (consumed, produced int, incomplete bool, err error) {
	for consumed < len(src) && produced < len(dst) {
		b := src[consumed]
		if b >= 0x80 {
			return consumed, produced, false, fmt.Errorf("%w: byte 0x%02x is not valid US-ASCII", ErrDecode, b)
		}
		dst[produced] = rune(b)
		consumed++
		produced++
	}
	return consumed, produced, false, nil
}

func decodeUTF8(dst []rune, src []byte) (consumed, produced int, incomplete bool, err error) {
	for consumed < len(src) && produced < len(dst) {
		rest := src[consumed:]
		r, size := utf8.DecodeRune(rest)
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(rest) && len(rest) < utf8.UTFMax {
				// Could be a valid prefix that continues after the
				// ring wraps; defer to the scratch path.
				return consumed, produced, true, nil
			}
			return consumed, produced, false, fmt.Errorf("%w: invalid UTF-8 sequence", ErrDecode)
		}
		dst[produced] = r
		consumed += size
		produced++
	}
	return consumed, produced, false, nil
}

// decodeUTF16 drives the x/text transform.Transformer for the
// configured UTF-16 byte order, decoding into an intermediate UTF-8
// buffer and then into runes. With atEOF=false, transform.ErrShortSrc
// is exactly §4.F's "malformed at the physical end of input" signal.
// consumed counts only the source bytes of the runes stored in dst:
// each is one 2-byte code unit, or a 4-byte surrogate pair for runes
// above U+FFFF.
func (d *Decoder) decodeUTF16(dst []rune, src []byte, atEOF bool) (consumed, produced int, incomplete bool, err error) {
	buf := make([]byte, 4*len(dst))
	nDst, _, terr := d.xform.Transform(buf, src, atEOF)
	if terr == transform.ErrShortSrc {
		incomplete = true
	} else if terr != nil && terr != transform.ErrShortDst {
		return 0, 0, false, fmt.Errorf("%w: %v", ErrDecode, terr)
	}
	i := 0
	for i < nDst && produced < len(dst) {
		r, size := utf8.DecodeRune(buf[i:nDst])
		dst[produced] = r
		produced++
		i += size
		consumed += 2
		if r > 0xFFFF {
			consumed += 2
		}
	}
	if i < nDst {
		incomplete = false // stopped because dst is full, not at the tail
	}
	return consumed, produced, incomplete, nil
}
