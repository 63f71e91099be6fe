// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package codec implements the character decoder/encoder of spec §4.F:
// converting between a byte ring and a character ring (and back)
// across ring wrap-arounds, for a single character set fixed at
// construction time.
package codec

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// CharacterSet names a recognized character encoding. §6 requires at
// minimum US-ASCII, UTF-8, UTF-16 LE, and UTF-16 BE.
type CharacterSet int

const (
	// ASCII is the default per §6's configuration table.
	ASCII CharacterSet = iota
	UTF8
	UTF16LE
	UTF16BE
)

// String renders the character set's canonical name.
func (cs CharacterSet) String() string {
	switch cs {
	case ASCII:
		return "US-ASCII"
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	default:
		return fmt.Sprintf("CharacterSet(%d)", int(cs))
	}
}

// ParseCharacterSet resolves a character set name to one of the four
// sets §6 requires at minimum (US-ASCII, UTF-8, UTF-16LE, UTF-16BE),
// accepting a handful of common spellings for each.
func ParseCharacterSet(name string) (CharacterSet, error) {
	switch name {
	case "US-ASCII", "ASCII", "us-ascii", "ascii":
		return ASCII, nil
	case "UTF-8", "UTF8", "utf-8", "utf8":
		return UTF8, nil
	case "UTF-16LE", "utf-16le":
		return UTF16LE, nil
	case "UTF-16BE", "utf-16be":
		return UTF16BE, nil
	default:
		return 0, fmt.Errorf("codec: unrecognized character set %q", name)
	}
}

// textEncoding returns the golang.org/x/text/encoding.Encoding backing
// a UTF-16 character set. ASCII and UTF-8 are handled by dedicated,
// allocation-free paths in decoder.go/encoder.go instead of going
// through the transform.Transformer machinery, since both have
// first-class stdlib/hand-rolled primitives that need no adaptation.
func (cs CharacterSet) textEncoding() encoding.Encoding {
	switch cs {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return nil
	}
}

// MaxCodepointBytes is the scratch-buffer size of §4.F: the largest
// number of bytes any supported character set can spend encoding a
// single Unicode code point (UTF-16 with an unpaired surrogate plus
// margin; UTF-8's max is 4).
const MaxCodepointBytes = 8
