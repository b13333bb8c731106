package saslwire

import (
	"testing"
)

func TestDecoder_ReadByte(t *testing.T) {
	dec := NewDecoder([]byte("n,"))

	b, ok := dec.ReadByte()
	if !ok {
		t.Fatalf("ReadByte() failed: %v", dec.Err())
	}
	if b != 'n' {
		t.Errorf("ReadByte() = %q, want 'n'", b)
	}

	b, ok = dec.ReadByte()
	if !ok {
		t.Fatalf("ReadByte() failed: %v", dec.Err())
	}
	if b != ',' {
		t.Errorf("ReadByte() = %q, want ','", b)
	}

	if !dec.EOF() {
		t.Error("EOF() = false, want true")
	}
}

func TestDecoder_ReadByte_empty(t *testing.T) {
	dec := NewDecoder(nil)

	if _, ok := dec.ReadByte(); ok {
		t.Fatal("ReadByte() succeeded on empty input")
	}
	if !dec.Truncated() {
		t.Errorf("Truncated() = false, want true (err: %v)", dec.Err())
	}
}

func TestDecoder_DelimitedString(t *testing.T) {
	dec := NewDecoder([]byte("admin,rest"))

	var s string
	if !dec.DelimitedString(',', &s) {
		t.Fatalf("DelimitedString() failed: %v", dec.Err())
	}
	if s != "admin" {
		t.Errorf("DelimitedString() = %q, want %q", s, "admin")
	}

	// The delimiter must still be there
	b, ok := dec.ReadByte()
	if !ok || b != ',' {
		t.Fatalf("ReadByte() after delimited string = %q, %v", b, ok)
	}

	var rest string
	if !dec.Rest(&rest) {
		t.Fatalf("Rest() failed: %v", dec.Err())
	}
	if rest != "rest" {
		t.Errorf("Rest() = %q, want %q", rest, "rest")
	}
}

func TestDecoder_DelimitedString_missingDelimiter(t *testing.T) {
	dec := NewDecoder([]byte("admin"))

	var s string
	if !dec.DelimitedString(',', &s) {
		t.Fatalf("DelimitedString() failed: %v", dec.Err())
	}
	if s != "admin" {
		t.Errorf("DelimitedString() = %q, want %q", s, "admin")
	}

	// Only the following required read reports the truncation
	if _, ok := dec.ReadByte(); ok {
		t.Fatal("ReadByte() succeeded past end of input")
	}
	if !dec.Truncated() {
		t.Errorf("Truncated() = false, want true (err: %v)", dec.Err())
	}
}

func TestDecoder_Rest_empty(t *testing.T) {
	dec := NewDecoder([]byte("n"))

	if _, ok := dec.ReadByte(); !ok {
		t.Fatalf("ReadByte() failed: %v", dec.Err())
	}

	var rest string
	if !dec.Rest(&rest) {
		t.Fatalf("Rest() failed: %v", dec.Err())
	}
	if rest != "" {
		t.Errorf("Rest() = %q, want empty", rest)
	}
}

func TestDecoder_sticky(t *testing.T) {
	dec := NewDecoder(nil)

	if _, ok := dec.ReadByte(); ok {
		t.Fatal("ReadByte() succeeded on empty input")
	}

	var s string
	if dec.DelimitedString(',', &s) {
		t.Error("DelimitedString() succeeded after a decoder error")
	}
	if dec.Rest(&s) {
		t.Error("Rest() succeeded after a decoder error")
	}
}
