// Package saslwire implements the low-level framing of SASL initial
// responses.
//
// The initial response of a GS2-style mechanism is a mostly-textual blob
// with a handful of single-byte flags and delimiters up front. The Decoder
// walks it byte by byte so that callers can tell a truncated message apart
// from a well-framed message with bad contents.
package saslwire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Decoder struct {
	r   *bufio.Reader
	err error
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{r: bufio.NewReader(bytes.NewReader(b))}
}

func (dec *Decoder) mustUnreadByte() {
	if err := dec.r.UnreadByte(); err != nil {
		panic(fmt.Errorf("saslwire: failed to unread byte: %v", err))
	}
}

// Err returns the first error encountered by the decoder, if any.
func (dec *Decoder) Err() error {
	return dec.err
}

// Truncated reports whether the decoder failed because the message ended
// before a required byte.
func (dec *Decoder) Truncated() bool {
	return errors.Is(dec.err, io.ErrUnexpectedEOF)
}

func (dec *Decoder) returnErr(err error) bool {
	if err == nil {
		return true
	}
	if dec.err == nil {
		dec.err = err
	}
	return false
}

// ReadByte reads a single byte. Running out of input is an error: the
// caller only asks for a byte when the grammar requires one.
func (dec *Decoder) ReadByte() (byte, bool) {
	if dec.err != nil {
		return 0, false
	}
	b, err := dec.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return b, dec.returnErr(err)
	}
	return b, true
}

// DelimitedString reads bytes up to (but not including) delim. The
// delimiter is left unconsumed so the caller can check for it explicitly.
// Running out of input before the delimiter is not an error here: whatever
// was read is returned, and the next ReadByte reports the truncation.
func (dec *Decoder) DelimitedString(delim byte, ptr *string) bool {
	if dec.err != nil {
		return false
	}
	var sb strings.Builder
	for {
		b, err := dec.r.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return dec.returnErr(err)
		}
		if b == delim {
			dec.mustUnreadByte()
			break
		}
		sb.WriteByte(b)
	}
	*ptr = sb.String()
	return true
}

// Rest reads all remaining bytes as text. An empty remainder is valid.
func (dec *Decoder) Rest(ptr *string) bool {
	if dec.err != nil {
		return false
	}
	b, err := io.ReadAll(dec.r)
	if err != nil {
		return dec.returnErr(err)
	}
	*ptr = string(b)
	return true
}

// EOF reports whether all input has been consumed.
func (dec *Decoder) EOF() bool {
	_, err := dec.r.ReadByte()
	if err == io.EOF {
		return true
	} else if err != nil {
		return dec.returnErr(err)
	}
	dec.mustUnreadByte()
	return false
}
