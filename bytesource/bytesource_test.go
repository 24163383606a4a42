package bytesource

import (
	"bytes"
	"io"
	"testing"
)

func TestRewindableReadIgnoreUnread(t *testing.T) {
	s := NewRewindable([]byte{1, 2, 3, 4, 5})

	var b [2]byte
	if err := s.ReadStrict(b[:]); err != nil {
		t.Fatalf("ReadStrict: %v", err)
	}
	if b != [2]byte{1, 2} {
		t.Fatalf("got %v", b)
	}

	if err := s.Ignore(1); err != nil {
		t.Fatalf("Ignore: %v", err)
	}

	if s.Eof() {
		t.Fatalf("expected not at eof")
	}

	if err := s.Unread(2); err != nil {
		t.Fatalf("Unread: %v", err)
	}
	var b2 [2]byte
	if err := s.ReadStrict(b2[:]); err != nil {
		t.Fatalf("ReadStrict after unread: %v", err)
	}
	if b2 != [2]byte{2, 3} {
		t.Fatalf("got %v after unread", b2)
	}

	if err := s.Unread(10); err != ErrCannotRewind {
		t.Fatalf("expected ErrCannotRewind, got %v", err)
	}
}

func TestRewindableShortRead(t *testing.T) {
	s := NewRewindable([]byte{1, 2})
	var b [3]byte
	if err := s.ReadStrict(b[:]); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestStreamSourceUnreadWithinHistory(t *testing.T) {
	s := New(bytes.NewReader([]byte{10, 20, 30, 40, 50}))

	var b [3]byte
	if err := s.ReadStrict(b[:]); err != nil {
		t.Fatalf("ReadStrict: %v", err)
	}
	if b != [3]byte{10, 20, 30} {
		t.Fatalf("got %v", b)
	}

	if err := s.Unread(1); err != nil {
		t.Fatalf("Unread: %v", err)
	}
	var b2 [2]byte
	if err := s.ReadStrict(b2[:]); err != nil {
		t.Fatalf("ReadStrict after unread: %v", err)
	}
	if b2 != [2]byte{30, 40} {
		t.Fatalf("got %v after unread", b2)
	}
}

func TestStreamSourceEof(t *testing.T) {
	s := New(bytes.NewReader([]byte{1}))
	if s.Eof() {
		t.Fatalf("should have data")
	}
	var b [1]byte
	if err := s.ReadStrict(b[:]); err != nil {
		t.Fatalf("ReadStrict: %v", err)
	}
	if !s.Eof() {
		t.Fatalf("should be at eof")
	}
}

func TestStreamSourceCannotRewindPastHistory(t *testing.T) {
	s := New(bytes.NewReader([]byte{1, 2, 3}))
	if err := s.Unread(1); err != ErrCannotRewind {
		t.Fatalf("expected ErrCannotRewind, got %v", err)
	}
}
