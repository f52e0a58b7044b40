package hook

import "testing"

func TestHubBroadcastDeliversToSubscriber(t *testing.T) {
	h := NewHub[Event]()
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	h.Broadcast(Event{Name: "focus_changed", Args: []string{"0x1"}})

	select {
	case got := <-ch:
		if got.Name != "focus_changed" || len(got.Args) != 1 || got.Args[0] != "0x1" {
			t.Errorf("unexpected event: %+v", got)
		}
	default:
		t.Fatal("subscriber did not receive the broadcast event")
	}
}

func TestHubBroadcastSkipsFullSubscriberWithoutBlocking(t *testing.T) {
	h := NewHub[Event]()
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	// Fill the subscriber's buffer, then broadcast past capacity; this
	// must return immediately rather than blocking the emitter.
	for i := 0; i < 64; i++ {
		h.Broadcast(Event{Name: "spam"})
	}

	if len(ch) == 0 {
		t.Fatal("expected some events to have been buffered")
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub[Event]()
	ch, unsubscribe := h.Subscribe()
	unsubscribe()

	h.Broadcast(Event{Name: "after-unsubscribe"})

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestHubMultipleSubscribersAllReceive(t *testing.T) {
	h := NewHub[Event]()
	ch1, unsub1 := h.Subscribe()
	ch2, unsub2 := h.Subscribe()
	defer unsub1()
	defer unsub2()

	h.Broadcast(Event{Name: "manage"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Name != "manage" {
				t.Errorf("got event %+v", ev)
			}
		default:
			t.Error("a subscriber missed the broadcast")
		}
	}
}

func TestLogEmitterBroadcastsToHub(t *testing.T) {
	e := NewLogEmitter()
	ch, unsubscribe := e.Hub.Subscribe()
	defer unsubscribe()

	e.Emit("urgent", "on", "0x5")

	select {
	case ev := <-ch:
		if ev.Name != "urgent" || len(ev.Args) != 2 {
			t.Errorf("unexpected event from LogEmitter: %+v", ev)
		}
	default:
		t.Fatal("LogEmitter.Emit did not broadcast to its hub")
	}
}
