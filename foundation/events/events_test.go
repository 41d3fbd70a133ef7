package events_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/events"
	"go.uber.org/zap"
)

func Test_Handler(t *testing.T) {
	evts := events.New()
	defer evts.Shutdown()

	ch := evts.Acquire("viewer-1")

	ev := evts.Handler(zap.NewNop().Sugar())
	ev("state: MineNewBlock: started")
	ev("viewer: block: %d", 1)

	select {
	case msg := <-ch:
		if msg != "viewer: block: 1" {
			t.Logf("got: %s", msg)
			t.Logf("exp: %s", "viewer: block: 1")
			t.Fatalf("Should only receive viewer events.")
		}
	default:
		t.Fatalf("Should receive the viewer event.")
	}

	select {
	case msg := <-ch:
		t.Fatalf("Should not receive other events: %s", msg)
	default:
	}

	if err := evts.Release("viewer-1"); err != nil {
		t.Fatalf("Should be able to release the channel: %s", err)
	}

	if _, open := <-ch; open {
		t.Fatalf("Should close the channel on release.")
	}

	if err := evts.Release("viewer-1"); err == nil {
		t.Fatalf("Should not be able to release twice.")
	}
}
