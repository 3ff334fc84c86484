package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Fatalf("payload = %v, want %v", got.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message %v", got.Payload)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(Topic{"config", "hal"})

	b.Publish(&Message{Topic: Topic{"config", "hal"}, Payload: "hello"})
	expectPayload(t, sub, "hello")

	b.Publish(&Message{Topic: Topic{"config", "other"}, Payload: "nope"})
	expectNone(t, sub)
}

func TestRetainedMessage(t *testing.T) {
	b := New(2)

	b.Publish(&Message{Topic: Topic{"hal", "state"}, Payload: "ready", Retained: true})

	sub := b.Subscribe(Topic{"hal", "state"})
	expectPayload(t, sub, "ready")

	// Clearing the retained value means late subscribers see nothing.
	b.Publish(&Message{Topic: Topic{"hal", "state"}, Payload: nil, Retained: true})
	late := b.Subscribe(Topic{"hal", "state"})
	expectNone(t, late)
}

func TestSingleLevelWildcard(t *testing.T) {
	b := New(16)

	s1 := b.Subscribe(Topic{"hal", "device", "+", "control"})
	s2 := b.Subscribe(Topic{"hal", "device", "led0", "control"})
	sNo := b.Subscribe(Topic{"hal", "device", "+", "info"})

	b.Publish(&Message{Topic: Topic{"hal", "device", "led0", "control"}, Payload: "m1"})
	expectPayload(t, s1, "m1")
	expectPayload(t, s2, "m1")
	expectNone(t, sNo)

	b.Publish(&Message{Topic: Topic{"hal", "device", "btn1", "control"}, Payload: "m2"})
	expectPayload(t, s1, "m2")
	expectNone(t, s2)
}

func TestWildcardSeesRetained(t *testing.T) {
	b := New(8)

	b.Publish(&Message{Topic: Topic{"hal", "device", "led0", "info"}, Payload: "i0", Retained: true})
	b.Publish(&Message{Topic: Topic{"hal", "device", "btn1", "info"}, Payload: "i1", Retained: true})

	sub := b.Subscribe(Topic{"hal", "device", "+", "info"})
	got := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-sub.Channel():
			got[m.Payload] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout collecting retained messages")
		}
	}
	if !got["i0"] || !got["i1"] {
		t.Fatalf("retained set = %v", got)
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	b := New(2)
	sub := b.Subscribe(Topic{"t"})

	for i := 0; i < 5; i++ {
		b.Publish(&Message{Topic: Topic{"t"}, Payload: i})
	}

	expectPayload(t, sub, 3)
	expectPayload(t, sub, 4)
	expectNone(t, sub)
}

func TestUnsubscribe(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(Topic{"a", "b"})
	sub.Unsubscribe()

	// Channel is closed and no longer delivered to.
	b.Publish(&Message{Topic: Topic{"a", "b"}, Payload: "x"})
	if m, ok := <-sub.Channel(); ok {
		t.Fatalf("message after unsubscribe: %v", m.Payload)
	}
}

func TestReplyTo(t *testing.T) {
	b := New(4)
	svc := b.Subscribe(Topic{"svc", "control"})
	reply := b.Subscribe(Topic{"reply", "1"})

	b.Publish(&Message{Topic: Topic{"svc", "control"}, Payload: "ping", ReplyTo: Topic{"reply", "1"}})

	select {
	case m := <-svc.Channel():
		b.Publish(&Message{Topic: m.ReplyTo, Payload: "pong"})
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for request")
	}
	expectPayload(t, reply, "pong")
}
