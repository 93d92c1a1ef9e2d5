package amicore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/randalmurphal/amicore/pkg/amicore"
	"github.com/randalmurphal/amicore/pkg/amicore/correlate"
	"github.com/randalmurphal/amicore/pkg/amicore/deadletter"
	delivery "github.com/randalmurphal/amicore/pkg/amicore/errors"
	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/subscription"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var quiet = slog.New(slog.DiscardHandler)

func newDispatcher(t *testing.T, opts ...amicore.Option) *amicore.Dispatcher {
	t.Helper()
	d, err := amicore.New(append([]amicore.Option{amicore.WithLogger(quiet)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func rec(t *testing.T, name string, fields ...event.Field) *event.Record {
	t.Helper()
	r, _ := event.FromName(taxonomy.Default(), name, fields)
	require.NotNil(t, r)
	return r
}

func actionID(id string) event.Field {
	return event.Field{Name: event.FieldActionID, Value: id}
}

// collector records the names of the records it receives.
type collector struct {
	mu    sync.Mutex
	names []string
	got   chan string
}

func newCollector() *collector {
	return &collector{got: make(chan string, 1024)}
}

func (c *collector) Handle(_ context.Context, r *event.Record) error {
	c.mu.Lock()
	c.names = append(c.names, r.Name())
	c.mu.Unlock()
	c.got <- r.Name()
	return nil
}

func (c *collector) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// await waits for the next delivery and returns its name.
func (c *collector) await(t *testing.T) string {
	t.Helper()
	select {
	case name := <-c.got:
		return name
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return ""
	}
}

func TestDispatcher_EndToEnd(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	queue := newCollector()
	misc := newCollector()
	_, err := d.Subscribe(taxonomy.CategoryQueue, queue)
	require.NoError(t, err)
	_, err = d.Subscribe(taxonomy.CategoryMisc, misc)
	require.NoError(t, err)

	pending, err := d.IssueCorrelated(ctx, []string{"AorListComplete"},
		amicore.WithToken("7"), amicore.WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "7", pending.Token())

	route, err := d.Ingest(ctx, rec(t, "AgentLogin", event.Field{Name: "Agent", Value: "1001"}))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)

	for _, obj := range []string{"a", "b", "c"} {
		route, err := d.Ingest(ctx, rec(t, "AorDetail", actionID("7"), event.Field{Name: "ObjectName", Value: obj}))
		require.NoError(t, err)
		assert.Equal(t, amicore.RouteCorrelated, route)
	}
	route, err = d.Ingest(ctx, rec(t, "AorListComplete", actionID("7")))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteCorrelated, route)

	res, err := pending.Wait(ctx)
	require.NoError(t, err)
	require.True(t, res.Completed())
	require.Len(t, res.Entries, 3)
	for i, obj := range []string{"a", "b", "c"} {
		assert.Equal(t, obj, res.Entries[i].Value("ObjectName"))
	}
	assert.Equal(t, "AorListComplete", res.Terminator.Name())

	assert.Equal(t, "AgentLogin", queue.await(t))

	// A later Misc record proves nothing correlated reached the Misc subscriber.
	_, err = d.Ingest(ctx, rec(t, "UserEvent"))
	require.NoError(t, err)
	assert.Equal(t, "UserEvent", misc.await(t))
	assert.Equal(t, []string{"UserEvent"}, misc.Names())
	assert.Equal(t, []string{"AgentLogin"}, queue.Names())
	assert.Equal(t, 0, d.OpenCorrelations())
}

func TestDispatcher_WildcardAndOrdering(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	all := newCollector()
	_, err := d.Subscribe(taxonomy.CategoryAny, all)
	require.NoError(t, err)

	names := []string{"Newchannel", "Newstate", "DialBegin", "DialEnd", "Hangup", "AgentLogin", "PeerStatus"}
	var want []string
	for i := 0; i < 20; i++ {
		for _, n := range names {
			_, err := d.Ingest(ctx, rec(t, n))
			require.NoError(t, err)
			want = append(want, n)
		}
	}

	for range want {
		all.await(t)
	}
	assert.Equal(t, want, all.Names())
}

func TestDispatcher_TokenWithoutCorrelationFansOut(t *testing.T) {
	d := newDispatcher(t)
	misc := newCollector()
	_, err := d.Subscribe(taxonomy.CategoryMisc, misc)
	require.NoError(t, err)

	route, err := d.Ingest(context.Background(), rec(t, "AorDetail", actionID("nobody")))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)
	assert.Equal(t, "AorDetail", misc.await(t))
}

func TestDispatcher_UnsolicitedWithTokenFansOut(t *testing.T) {
	d := newDispatcher(t)
	queue := newCollector()
	_, err := d.Subscribe(taxonomy.CategoryQueue, queue)
	require.NoError(t, err)

	_, err = d.IssueCorrelated(context.Background(), nil, amicore.WithToken("9"))
	require.NoError(t, err)

	route, err := d.Ingest(context.Background(), rec(t, "AgentLogin", actionID("9")))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)
	assert.Equal(t, "AgentLogin", queue.await(t))
	assert.Equal(t, 1, d.OpenCorrelations())
}

func TestDispatcher_UnknownTolerated(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	unknown := newCollector()
	all := newCollector()
	misc := newCollector()
	for cat, c := range map[taxonomy.Category]*collector{
		taxonomy.CategoryUnknown: unknown,
		taxonomy.CategoryAny:     all,
		taxonomy.CategoryMisc:    misc,
	} {
		_, err := d.Subscribe(cat, c)
		require.NoError(t, err)
	}

	route, err := d.Ingest(ctx, rec(t, "BrandNewEvent", actionID("1")))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)

	assert.Equal(t, "BrandNewEvent", unknown.await(t))
	assert.Equal(t, "BrandNewEvent", all.await(t))

	_, err = d.Ingest(ctx, rec(t, "UserEvent"))
	require.NoError(t, err)
	assert.Equal(t, "UserEvent", misc.await(t))
	assert.Equal(t, []string{"UserEvent"}, misc.Names())
}

func TestDispatcher_UnknownRejectedByCategory(t *testing.T) {
	settings := amicore.DefaultSettings()
	settings.UnknownPolicy = map[taxonomy.Category]amicore.Policy{
		taxonomy.CategoryCall: amicore.PolicyReject,
	}
	dlq := deadletter.NewMemoryQueue(deadletter.MemoryConfig{})
	d := newDispatcher(t, amicore.WithSettings(settings), amicore.WithDeadLetter(dlq))
	ctx := context.Background()

	route, err := d.Ingest(ctx, rec(t, "CallThing", event.Field{Name: event.FieldPrivilege, Value: "call,all"}))
	assert.Equal(t, amicore.RouteRejected, route)
	require.Error(t, err)
	assert.ErrorIs(t, err, amicore.ErrUnknownEvent)

	var unknownErr *taxonomy.UnknownEventError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "CallThing", unknownErr.Name)

	letters, err := dlq.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, deadletter.ReasonUnknownRejected, letters[0].Reason)
	assert.Equal(t, "CallThing", letters[0].Event)

	// Other categories keep the default policy.
	route, err = d.Ingest(ctx, rec(t, "AgentThing", event.Field{Name: event.FieldPrivilege, Value: "agent,all"}))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)

	// Without a Privilege hint the default policy applies.
	route, err = d.Ingest(ctx, rec(t, "Hintless"))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)
}

func TestDispatcher_UnknownRejectedByDefault(t *testing.T) {
	settings := amicore.DefaultSettings()
	settings.DefaultUnknownPolicy = amicore.PolicyReject
	settings.UnknownPolicy = map[taxonomy.Category]amicore.Policy{
		taxonomy.CategoryQueue: amicore.PolicyTolerate,
	}
	d := newDispatcher(t, amicore.WithSettings(settings))
	ctx := context.Background()

	_, err := d.Ingest(ctx, rec(t, "Mystery"))
	assert.ErrorIs(t, err, amicore.ErrUnknownEvent)

	_, err = d.Ingest(ctx, rec(t, "AgentMystery", event.Field{Name: event.FieldPrivilege, Value: "agent"}))
	assert.NoError(t, err)

	n, err := d.DeadLetters().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDispatcher_IngestFields(t *testing.T) {
	d := newDispatcher(t)
	call := newCollector()
	_, err := d.Subscribe(taxonomy.CategoryCall, call)
	require.NoError(t, err)

	route, err := d.IngestFields(context.Background(), event.Fields{
		{Name: "Event", Value: "Hangup"},
		{Name: "Channel", Value: "PJSIP/100-0001"},
	})
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)
	assert.Equal(t, "Hangup", call.await(t))

	_, err = d.IngestFields(context.Background(), event.Fields{{Name: "Channel", Value: "x"}})
	assert.ErrorIs(t, err, event.ErrMalformed)
}

func TestDispatcher_IngestNil(t *testing.T) {
	d := newDispatcher(t)
	_, err := d.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, amicore.ErrNilRecord)
}

func TestDispatcher_IssueCorrelated(t *testing.T) {
	ctx := context.Background()

	t.Run("generates token", func(t *testing.T) {
		d := newDispatcher(t)
		p, err := d.IssueCorrelated(ctx, []string{"StatusComplete"})
		require.NoError(t, err)
		_, err = uuid.Parse(p.Token())
		assert.NoError(t, err)
	})

	t.Run("duplicate token", func(t *testing.T) {
		d := newDispatcher(t)
		_, err := d.IssueCorrelated(ctx, nil, amicore.WithToken("dup"))
		require.NoError(t, err)
		_, err = d.IssueCorrelated(ctx, nil, amicore.WithToken("dup"))
		assert.ErrorIs(t, err, correlate.ErrDuplicateToken)
		assert.Equal(t, 1, d.OpenCorrelations())
	})

	t.Run("zero timeout", func(t *testing.T) {
		d := newDispatcher(t)
		p, err := d.IssueCorrelated(ctx, nil, amicore.WithTimeout(0))
		require.NoError(t, err)
		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusTimedOut, res.Status)
		assert.Empty(t, res.Entries)
	})

	t.Run("default timeout from settings", func(t *testing.T) {
		settings := amicore.DefaultSettings()
		settings.DefaultTimeout = 20 * time.Millisecond
		d := newDispatcher(t, amicore.WithSettings(settings))

		p, err := d.IssueCorrelated(ctx, []string{"AorListComplete"}, amicore.WithToken("t"))
		require.NoError(t, err)
		_, err = d.Ingest(ctx, rec(t, "AorDetail", actionID("t")))
		require.NoError(t, err)

		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusTimedOut, res.Status)
		assert.Len(t, res.Entries, 1, "partial entries are kept")
		assert.ErrorIs(t, res.Err(), correlate.ErrTimedOut)
	})

	t.Run("context cancel", func(t *testing.T) {
		d := newDispatcher(t)
		cctx, cancel := context.WithCancel(ctx)
		p, err := d.IssueCorrelated(cctx, nil)
		require.NoError(t, err)
		cancel()

		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusCancelled, res.Status)
	})
}

func TestDispatcher_Cancel(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	p, err := d.IssueCorrelated(ctx, nil, amicore.WithToken("c"))
	require.NoError(t, err)

	d.Cancel("c")
	d.Cancel("c")
	d.Cancel("never-opened")

	res, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, correlate.StatusCancelled, res.Status)

	// The token is free again and a late terminator fans out.
	route, err := d.Ingest(ctx, rec(t, "AorListComplete", actionID("c")))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)
}

func TestDispatcher_LateEntryFansOut(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()
	misc := newCollector()
	_, err := d.Subscribe(taxonomy.CategoryMisc, misc)
	require.NoError(t, err)

	p, err := d.IssueCorrelated(ctx, nil, amicore.WithToken("5"), amicore.WithTimeout(0))
	require.NoError(t, err)
	_, err = p.Wait(ctx)
	require.NoError(t, err)

	route, err := d.Ingest(ctx, rec(t, "AorDetail", actionID("5")))
	require.NoError(t, err)
	assert.Equal(t, amicore.RouteFanout, route)
	assert.Equal(t, "AorDetail", misc.await(t))
}

func TestDispatcher_FlushAll(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	p1, err := d.IssueCorrelated(ctx, nil)
	require.NoError(t, err)
	p2, err := d.IssueCorrelated(ctx, nil)
	require.NoError(t, err)

	lost := errors.New("connection lost")
	assert.Equal(t, 2, d.FlushAll(lost))
	assert.Equal(t, 0, d.FlushAll(lost))

	for _, p := range []*correlate.Pending{p1, p2} {
		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusDisconnected, res.Status)
		assert.ErrorIs(t, res.Err(), correlate.ErrDisconnected)
		assert.ErrorIs(t, res.Err(), lost)
	}
}

func TestDispatcher_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("end of source flushes", func(t *testing.T) {
		d := newDispatcher(t)
		call := newCollector()
		_, err := d.Subscribe(taxonomy.CategoryCall, call)
		require.NoError(t, err)

		p, err := d.IssueCorrelated(ctx, []string{"StatusComplete"}, amicore.WithToken("s"))
		require.NoError(t, err)

		ch := make(chan *event.Record, 4)
		ch <- rec(t, "Newchannel")
		ch <- rec(t, "Status", actionID("s"))
		ch <- rec(t, "BrandNewEvent")
		close(ch)

		require.NoError(t, d.Run(ctx, amicore.ChanSource(ch)))
		assert.Equal(t, "Newchannel", call.await(t))

		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusDisconnected, res.Status)
		assert.Len(t, res.Entries, 1)
		assert.ErrorIs(t, res.Reason, amicore.ErrSourceClosed)
	})

	t.Run("source failure flushes and returns", func(t *testing.T) {
		d := newDispatcher(t)
		p, err := d.IssueCorrelated(ctx, nil)
		require.NoError(t, err)

		reset := errors.New("connection reset")
		calls := 0
		src := amicore.SourceFunc(func(context.Context) (*event.Record, error) {
			calls++
			if calls == 1 {
				return rec(t, "PeerStatus"), nil
			}
			return nil, reset
		})

		err = d.Run(ctx, src)
		assert.ErrorIs(t, err, reset)

		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusDisconnected, res.Status)
		assert.ErrorIs(t, res.Reason, reset)
	})

	t.Run("context cancel stops run", func(t *testing.T) {
		d := newDispatcher(t)
		p, err := d.IssueCorrelated(ctx, nil, amicore.WithTimeout(time.Minute))
		require.NoError(t, err)

		rctx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- d.Run(rctx, amicore.ChanSource(make(chan *event.Record))) }()
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return")
		}

		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, correlate.StatusDisconnected, res.Status)
	})

	t.Run("io.EOF from SourceFunc", func(t *testing.T) {
		d := newDispatcher(t)
		err := d.Run(ctx, amicore.SourceFunc(func(context.Context) (*event.Record, error) {
			return nil, io.EOF
		}))
		assert.NoError(t, err)
	})
}

func TestDispatcher_MailboxFullParks(t *testing.T) {
	dlq := deadletter.NewMemoryQueue(deadletter.MemoryConfig{})
	var userDrops sync.WaitGroup
	userDrops.Add(1)
	var once sync.Once

	d := newDispatcher(t,
		amicore.WithDeadLetter(dlq),
		amicore.WithSubscriptionConfig(subscription.Config{
			BufferSize: 1,
			OnDrop: func(*event.Record, *subscription.Subscription) {
				once.Do(userDrops.Done)
			},
		}),
	)
	ctx := context.Background()

	release := make(chan struct{})
	_, err := d.Subscribe(taxonomy.CategoryCall, event.HandlerFunc(func(ctx context.Context, _ *event.Record) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}), subscription.WithName("slow"))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := d.Ingest(ctx, rec(t, "Newchannel"))
		require.NoError(t, err)
	}
	userDrops.Wait()
	close(release)

	counts, err := dlq.CountByReason(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counts[deadletter.ReasonMailboxFull], 3)

	letters, err := dlq.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "slow", letters[0].Subscriber)
}

func TestDispatcher_HandlerErrorParks(t *testing.T) {
	dlq := deadletter.NewMemoryQueue(deadletter.MemoryConfig{})
	d := newDispatcher(t, amicore.WithDeadLetter(dlq))
	ctx := context.Background()

	_, err := d.Subscribe(taxonomy.CategoryCall, event.HandlerFunc(func(context.Context, *event.Record) error {
		return errors.New("billing db down")
	}), subscription.WithName("billing"))
	require.NoError(t, err)

	_, err = d.Ingest(ctx, rec(t, "Hangup"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, _ := dlq.Count(ctx)
		return n == 1
	}, 2*time.Second, 5*time.Millisecond)

	letters, err := dlq.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, deadletter.ReasonHandlerError, letters[0].Reason)
	assert.Equal(t, "billing", letters[0].Subscriber)
	assert.Equal(t, "billing db down", letters[0].Error)
	assert.Equal(t, 1, letters[0].Attempts)
}

func TestDispatcher_HandlerRetriesParkCause(t *testing.T) {
	dlq := deadletter.NewMemoryQueue(deadletter.MemoryConfig{})
	d := newDispatcher(t, amicore.WithDeadLetter(dlq))
	ctx := context.Background()

	_, err := d.Subscribe(taxonomy.CategoryCall, event.HandlerFunc(func(context.Context, *event.Record) error {
		return delivery.Transient(errors.New("billing db busy"), "write cdr")
	}), subscription.WithName("billing"), subscription.WithRetry(delivery.NewRetryConfig(
		delivery.WithMaxAttempts(2),
		delivery.WithBackoff(time.Millisecond, 0),
	)))
	require.NoError(t, err)

	_, err = d.Ingest(ctx, rec(t, "Hangup"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, _ := dlq.Count(ctx)
		return n == 1
	}, 2*time.Second, 5*time.Millisecond)

	letters, err := dlq.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "billing db busy", letters[0].Error)
	assert.Equal(t, 2, letters[0].Attempts)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	c := newCollector()
	sub, err := d.Subscribe(taxonomy.CategoryCall, c)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Subscribers())

	_, err = d.Ingest(ctx, rec(t, "Hangup"))
	require.NoError(t, err)
	c.await(t)

	d.Unsubscribe(sub)
	d.Unsubscribe(sub)
	assert.Equal(t, 0, d.Subscribers())

	_, err = d.Ingest(ctx, rec(t, "Hangup"))
	require.NoError(t, err)
	<-sub.Done()
	assert.Equal(t, []string{"Hangup"}, c.Names())
}

func TestDispatcher_Close(t *testing.T) {
	d, err := amicore.New(amicore.WithLogger(quiet))
	require.NoError(t, err)
	ctx := context.Background()

	p, err := d.IssueCorrelated(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	res, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, correlate.StatusDisconnected, res.Status)
	assert.ErrorIs(t, res.Reason, amicore.ErrClosed)

	_, err = d.Ingest(ctx, rec(t, "Hangup"))
	assert.ErrorIs(t, err, amicore.ErrClosed)
	_, err = d.IssueCorrelated(ctx, nil)
	assert.ErrorIs(t, err, amicore.ErrClosed)
	_, err = d.Subscribe(taxonomy.CategoryCall, newCollector())
	assert.ErrorIs(t, err, amicore.ErrClosed)
}

func TestDispatcher_IssueRacingClose(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		d, err := amicore.New(amicore.WithLogger(quiet))
		require.NoError(t, err)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			pendings []*correlate.Pending
		)
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 10; k++ {
					p, err := d.IssueCorrelated(ctx, nil, amicore.WithTimeout(time.Minute))
					if err != nil {
						assert.ErrorIs(t, err, amicore.ErrClosed)
						return
					}
					mu.Lock()
					pendings = append(pendings, p)
					mu.Unlock()
				}
			}()
		}
		require.NoError(t, d.Close())
		wg.Wait()

		for _, p := range pendings {
			select {
			case <-p.Done():
			case <-time.After(time.Second):
				t.Fatalf("correlation %s opened during close was never flushed", p.Token())
			}
			res, _ := p.Result()
			assert.Equal(t, correlate.StatusDisconnected, res.Status)
		}
	}
}

func TestNew_InvalidSettings(t *testing.T) {
	settings := amicore.DefaultSettings()
	settings.SubscriberBuffer = 0
	_, err := amicore.New(amicore.WithSettings(settings))
	assert.ErrorIs(t, err, amicore.ErrInvalidSettings)
}

func TestDispatcher_ConcurrentIngest(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	pendings := make([]*correlate.Pending, 10)
	for i := range pendings {
		p, err := d.IssueCorrelated(ctx, []string{"AorListComplete"}, amicore.WithTimeout(5*time.Second))
		require.NoError(t, err)
		pendings[i] = p
	}

	records := make([][]*event.Record, len(pendings))
	for i, p := range pendings {
		for j := 0; j < 5; j++ {
			records[i] = append(records[i], rec(t, "AorDetail", actionID(p.Token())))
		}
		records[i] = append(records[i], rec(t, "AorListComplete", actionID(p.Token())))
	}

	for i := range pendings {
		wg.Add(1)
		go func(batch []*event.Record) {
			defer wg.Done()
			for _, r := range batch {
				_, err := d.Ingest(ctx, r)
				assert.NoError(t, err)
			}
		}(records[i])
	}
	wg.Wait()

	for _, p := range pendings {
		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.True(t, res.Completed())
		assert.Len(t, res.Entries, 5)
	}
}
