// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe

import (
	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

// isLineBreak reports whether c is one of the Unicode line-break
// characters recognized by §4.G.
func isLineBreak(c rune) bool {
	switch c {
	case '\n', '\v', '\f', '\r', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

// LineSplitter consumes a character ring and produces a string ring,
// implementing §4.G's splitter: a growable character accumulator plus
// the previous character, used only to detect and compress a CRLF
// pair into a single terminator.
type LineSplitter struct {
	chars *ring.CharRing
	lines *ring.StringRing
	cur   []rune
	prev  rune
	eos   bool
}

// NewLineSplitter constructs a LineSplitter reading characters from c
// and writing lines to s. estimatedLineLength seeds cur's initial
// capacity (§6's EstimatedLineLength option).
func NewLineSplitter(c *ring.CharRing, s *ring.StringRing, estimatedLineLength int) (*LineSplitter, error) {
	if c == nil || s == nil {
		return nil, ErrInvalidArgument
	}
	if estimatedLineLength <= 0 {
		estimatedLineLength = 1024
	}
	return &LineSplitter{chars: c, lines: s, cur: make([]rune, 0, estimatedLineLength), prev: -1}, nil
}

// Input returns the character ring the splitter reads from.
func (l *LineSplitter) Input() *ring.CharRing { return l.chars }

// Output returns the string ring the splitter writes into.
func (l *LineSplitter) Output() *ring.StringRing { return l.lines }

// Agent wraps the splitter in an sched.Agent, state fixed to the
// splitter itself.
func (l *LineSplitter) Agent() *sched.Agent[*LineSplitter, int] {
	return sched.NewAgent(l, lineSplitterHooks{})
}

type lineSplitterHooks struct{}

func (lineSplitterHooks) Ready(l *LineSplitter) bool { return l.ready() }
func (lineSplitterHooks) Done(l *LineSplitter) bool  { return l.done() }
func (lineSplitterHooks) Action(l *LineSplitter) (int, error) { return l.step() }

func (l *LineSplitter) ready() bool {
	if l.eos || l.lines.EOS() {
		return false
	}
	if l.lines.AvailableToWrite() == 0 {
		return false
	}
	return l.chars.AvailableToRead() > 0 || l.chars.EOS()
}

func (l *LineSplitter) done() bool { return l.lines.EOS() }

// step consumes as many characters as are available and fit in the
// output ring, flushing cur on every recognized terminator and
// compressing a CRLF pair into one flush per §4.G.
func (l *LineSplitter) step() (int, error) {
	flushed := 0
	for l.lines.AvailableToWrite() > 0 {
		c, ok := l.chars.Read()
		if !ok {
			if l.chars.EOS() {
				if len(l.cur) > 0 {
					l.flush()
					flushed++
				}
				l.eos = true
				l.lines.SetEOS()
			}
			return flushed, nil
		}

		if isLineBreak(c) {
			if c == '\n' && l.prev == '\r' {
				// CRLF: already flushed on the \r; this \n is part of
				// the same terminator and produces no extra line.
				l.prev = c
				continue
			}
			l.flush()
			flushed++
			l.prev = c
			continue
		}

		l.cur = append(l.cur, c)
		l.prev = c
	}
	return flushed, nil
}

func (l *LineSplitter) flush() {
	l.lines.Write(string(l.cur))
	l.cur = l.cur[:0]
}

// LineJoiner consumes a string ring and produces a character ring,
// interleaving a configurable terminator string after every line, per
// §4.G's joiner.
type LineJoiner struct {
	lines      *ring.StringRing
	chars      *ring.CharRing
	terminator []rune
	cur        []rune
	curIdx     int
	termIdx    int
	haveLine   bool
	eos        bool
}

// NewLineJoiner constructs a LineJoiner reading lines from s and
// writing characters to c, appending terminator after each line.
func NewLineJoiner(s *ring.StringRing, c *ring.CharRing, terminator string) (*LineJoiner, error) {
	if s == nil || c == nil {
		return nil, ErrInvalidArgument
	}
	return &LineJoiner{lines: s, chars: c, terminator: []rune(terminator), termIdx: -1}, nil
}

// Input returns the string ring the joiner reads from.
func (j *LineJoiner) Input() *ring.StringRing { return j.lines }

// Output returns the character ring the joiner writes into.
func (j *LineJoiner) Output() *ring.CharRing { return j.chars }

// Agent wraps the joiner in an sched.Agent, state fixed to the
// joiner itself.
func (j *LineJoiner) Agent() *sched.Agent[*LineJoiner, int] {
	return sched.NewAgent(j, lineJoinerHooks{})
}

type lineJoinerHooks struct{}

func (lineJoinerHooks) Ready(j *LineJoiner) bool { return j.ready() }
func (lineJoinerHooks) Done(j *LineJoiner) bool  { return j.done() }
func (lineJoinerHooks) Action(j *LineJoiner) (int, error) { return j.step() }

func (j *LineJoiner) ready() bool {
	if j.eos || j.chars.EOS() {
		return false
	}
	if j.chars.AvailableToWriteStraight() == 0 {
		return false
	}
	return j.haveLine || j.lines.AvailableToRead() > 0 || j.lines.EOS()
}

func (j *LineJoiner) done() bool { return j.chars.EOS() }

// step writes one character per inner iteration to the output ring,
// pulling a new line (and resetting both indices) whenever the
// previous line and its terminator have both been fully emitted.
func (j *LineJoiner) step() (int, error) {
	written := 0
	for j.chars.AvailableToWriteStraight() > 0 {
		if !j.haveLine {
			s, ok := j.lines.Read()
			if !ok {
				if j.lines.EOS() {
					j.eos = true
					j.chars.SetEOS()
				}
				return written, nil
			}
			j.cur = []rune(s)
			j.curIdx = 0
			j.termIdx = 0
			j.haveLine = true
		}

		if j.curIdx < len(j.cur) {
			j.chars.Write(j.cur[j.curIdx])
			j.curIdx++
			written++
			continue
		}
		if j.termIdx < len(j.terminator) {
			j.chars.Write(j.terminator[j.termIdx])
			j.termIdx++
			written++
			continue
		}
		j.haveLine = false
	}
	return written, nil
}
