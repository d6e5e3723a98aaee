package session

import (
	"testing"
)

func TestStoreLoadMissingIsZero(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.AccessToken != "" || st.Email != "" {
		t.Fatalf("got %+v, want zero state", st)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	in := State{AccessToken: "tok1", Email: "a@b.com"}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestStoreClearIdempotent(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.Clear(); err != nil {
		t.Fatalf("clearing nothing should succeed, got %v", err)
	}
	if err := s.Save(State{AccessToken: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	st, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.AccessToken != "" {
		t.Fatal("token survived Clear")
	}
}
