// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybscloud-labs/streampipe/codec"
)

func TestParseCharacterSetAcceptsCommonSpellings(t *testing.T) {
	cases := map[string]codec.CharacterSet{
		"US-ASCII": codec.ASCII,
		"ascii":    codec.ASCII,
		"UTF-8":    codec.UTF8,
		"utf8":     codec.UTF8,
		"UTF-16LE": codec.UTF16LE,
		"utf-16be": codec.UTF16BE,
	}
	for name, want := range cases {
		got, err := codec.ParseCharacterSet(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseCharacterSetRejectsUnknownName(t *testing.T) {
	_, err := codec.ParseCharacterSet("EBCDIC-037")
	assert.Error(t, err)
}

func TestCharacterSetString(t *testing.T) {
	assert.Equal(t, "US-ASCII", codec.ASCII.String())
	assert.Equal(t, "UTF-8", codec.UTF8.String())
	assert.Equal(t, "UTF-16LE", codec.UTF16LE.String())
	assert.Equal(t, "UTF-16BE", codec.UTF16BE.String())
	assert.Contains(t, codec.CharacterSet(99).String(), "CharacterSet")
}
