package memstore

import (
	"context"
	"testing"
	"time"
)

func TestReadAbsentPath(t *testing.T) {
	s := New()
	defer s.Close()

	_, ok, err := s.Read(context.Background(), "teams")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent document")
	}
}

func TestWriteThenRead(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	if err := s.Write(ctx, "teams", []byte(`[1]`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	v, ok, err := s.Read(ctx, "teams")
	if err != nil || !ok {
		t.Fatalf("expected document, got ok=%v err=%v", ok, err)
	}
	if string(v) != `[1]` {
		t.Fatalf("unexpected value %q", v)
	}
}

func TestLastWriteWins(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	s.Write(ctx, "teams", []byte(`first`))
	s.Write(ctx, "teams", []byte(`second`))

	v, _, _ := s.Read(ctx, "teams")
	if string(v) != "second" {
		t.Fatalf("expected second write to win, got %q", v)
	}
}

func TestSubscriberReceivesOwnWrite(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	got := make(chan []byte, 1)
	unsub, err := s.Subscribe(ctx, "teams", func(path string, value []byte) {
		got <- value
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer unsub()

	if err := s.Write(ctx, "teams", []byte(`hello`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case v := <-got:
		if string(v) != "hello" {
			t.Fatalf("unexpected delivery %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never saw the write")
	}
}

func TestDeliveriesArriveInWriteOrder(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	got := make(chan string, 8)
	unsub, _ := s.Subscribe(ctx, "teams", func(path string, value []byte) {
		got <- string(value)
	})
	defer unsub()

	for _, v := range []string{"a", "b", "c"} {
		s.Write(ctx, "teams", []byte(v))
	}

	for _, want := range []string{"a", "b", "c"} {
		select {
		case v := <-got:
			if v != want {
				t.Fatalf("expected %q, got %q", want, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	got := make(chan []byte, 1)
	unsub, _ := s.Subscribe(ctx, "teams", func(path string, value []byte) {
		got <- value
	})
	unsub()

	s.Write(ctx, "teams", []byte(`after`))

	select {
	case v := <-got:
		t.Fatalf("unexpected delivery after unsubscribe: %q", v)
	case <-time.After(50 * time.Millisecond):
	}
}
