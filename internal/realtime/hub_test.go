package realtime

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribedTableOnly(t *testing.T) {
	h := NewHub()
	defer h.Shutdown()

	sub := h.Subscribe(uuid.New(), false, []string{"announcements"})
	defer sub.Close()

	h.Publish("documents", ActionInsert, nil, "doc")
	h.Publish("announcements", ActionInsert, nil, "ann")

	ev := <-sub.C
	assert.Equal(t, "announcements", ev.Table)
	assert.Equal(t, ActionInsert, ev.Action)
	assert.Equal(t, "ann", ev.Payload)
	assert.Empty(t, sub.C)
}

func TestOwnerScopedDelivery(t *testing.T) {
	h := NewHub()
	defer h.Shutdown()

	alice := uuid.New()
	bob := uuid.New()

	aliceSub := h.Subscribe(alice, false, []string{"financial_transactions"})
	bobSub := h.Subscribe(bob, false, []string{"financial_transactions"})
	adminSub := h.Subscribe(uuid.New(), true, []string{"financial_transactions"})
	defer aliceSub.Close()
	defer bobSub.Close()
	defer adminSub.Close()

	h.Publish("financial_transactions", ActionInsert, &alice, "tx")

	ev := <-aliceSub.C
	require.NotNil(t, ev.OwnerID)
	assert.Equal(t, alice, *ev.OwnerID)

	// Bob owns nothing here; the admin sees everything.
	assert.Empty(t, bobSub.C)
	assert.Equal(t, "tx", (<-adminSub.C).Payload)
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	defer h.Shutdown()

	s1 := h.Subscribe(uuid.New(), false, []string{"announcements"})
	s2 := h.Subscribe(uuid.New(), false, []string{"announcements"})
	defer s1.Close()
	defer s2.Close()

	h.Publish("announcements", ActionInsert, nil, "hello")

	assert.Equal(t, "hello", (<-s1.C).Payload)
	assert.Equal(t, "hello", (<-s2.C).Payload)
}

func TestSeqIsMonotonicPerTable(t *testing.T) {
	h := NewHub()
	defer h.Shutdown()

	sub := h.Subscribe(uuid.New(), false, []string{"a", "b"})
	defer sub.Close()

	h.Publish("a", ActionInsert, nil, 1)
	h.Publish("b", ActionInsert, nil, 2)
	h.Publish("a", ActionUpdate, nil, 3)

	e1, e2, e3 := <-sub.C, <-sub.C, <-sub.C
	assert.Equal(t, uint64(1), e1.Seq)
	assert.Equal(t, uint64(1), e2.Seq) // separate counter for table b
	assert.Equal(t, uint64(2), e3.Seq)
	assert.Equal(t, uint64(2), h.Seq("a"))
	assert.Equal(t, uint64(1), h.Seq("b"))
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	defer h.Shutdown()

	sub := h.Subscribe(uuid.New(), false, []string{"t"})
	defer sub.Close()

	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish("t", ActionInsert, nil, i)
	}

	// Channel holds exactly its buffer; the overflow was dropped, not queued.
	assert.Equal(t, subscriberBuffer, len(sub.C))
	// Seq still advanced for every publish.
	assert.Equal(t, uint64(subscriberBuffer+10), h.Seq("t"))
}

// Subscribers disconnect whenever they like; publishing from mutating
// requests at the same moment must never panic on a closed channel.
func TestConcurrentPublishAndClose(t *testing.T) {
	owner := uuid.New()

	for i := 0; i < 100; i++ {
		h := NewHub()
		sub := h.Subscribe(owner, false, []string{"documents"})

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					h.Publish("documents", ActionInsert, &owner, j)
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Close()
		}()

		wg.Wait()
		h.Shutdown()
	}
}

func TestConcurrentPublishAndShutdown(t *testing.T) {
	for i := 0; i < 100; i++ {
		h := NewHub()
		sub := h.Subscribe(uuid.New(), false, []string{"t"})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.Publish("t", ActionInsert, nil, j)
			}
		}()
		go func() {
			defer wg.Done()
			h.Shutdown()
		}()
		wg.Wait()

		// The channel ends up closed exactly once, drained or not.
		for range sub.C {
		}
	}
}

func TestCloseAndShutdownAreIdempotent(t *testing.T) {
	h := NewHub()

	sub := h.Subscribe(uuid.New(), false, []string{"t"})
	sub.Close()
	sub.Close()

	_, open := <-sub.C
	assert.False(t, open)

	h.Shutdown()
	h.Shutdown()

	// Subscribing after shutdown yields an already-closed channel.
	late := h.Subscribe(uuid.New(), false, []string{"t"})
	_, open = <-late.C
	assert.False(t, open)

	// Publishing after shutdown must not panic.
	h.Publish("t", ActionInsert, nil, nil)
}
