package dispatch_test

import (
	"context"
	"reflect"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/derek82511/line-bot-sdk/dispatch"
	"github.com/derek82511/line-bot-sdk/event"
	"github.com/derek82511/line-bot-sdk/id"
)

// recorder collects emitted topic names across the dispatch goroutine.
type recorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *recorder) handler(name string) dispatch.Handler {
	return func(_ context.Context, _ *event.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.topics = append(r.topics, name)
	}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.topics))
	copy(out, r.topics)
	return out
}

func (r *recorder) waitFor(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d emissions, got %v", n, r.snapshot())
	return nil
}

func startEngine(t *testing.T) *dispatch.Engine {
	t.Helper()
	e := dispatch.NewEngine(dispatch.Config{QueueSize: 8}, nil)
	e.Start(context.Background())
	t.Cleanup(func() { e.Stop(context.Background()) })
	return e
}

func subscribeAll(e *dispatch.Engine, r *recorder, topics ...dispatch.Topic) {
	for _, topic := range topics {
		e.Subscribe(topic, r.handler(string(topic)))
	}
}

func newBatch(tenant string, events ...event.Event) *event.Batch {
	return &event.Batch{
		ID:     id.NewBatchID(),
		Tenant: tenant,
		Events: events,
	}
}

func textEvent(kind event.SourceKind, text string) event.Event {
	return event.Event{
		Type:    event.TypeMessage,
		Source:  event.Source{Kind: kind, UserID: "U1"},
		Message: &event.Message{ID: "m1", Kind: event.MessageText, Text: text},
	}
}

func TestEmissionLayeringForTextMessage(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicEvent,
		dispatch.TopicEvent.For(event.SourceUser),
		dispatch.TopicMessage,
		dispatch.TopicMessage.For(event.SourceUser),
		dispatch.TopicText,
		dispatch.TopicText.For(event.SourceUser),
	)

	e.Enqueue(newBatch("t1", textEvent(event.SourceUser, "hello")))

	got := r.waitFor(t, 6)
	want := []string{"event", "event:user", "message", "message:user", "text", "text:user"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emission order = %v, want %v", got, want)
	}
}

func TestFollowEmitsOnlyFollowTopics(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicEvent,
		dispatch.TopicFollow,
		dispatch.TopicFollow.For(event.SourceUser),
		dispatch.TopicMessage,
		dispatch.TopicText,
		dispatch.TopicUnfollow,
		dispatch.TopicNonText,
	)

	e.Enqueue(newBatch("t1", event.Event{
		Type:   event.TypeFollow,
		Source: event.Source{Kind: event.SourceUser, UserID: "U1"},
	}))

	got := r.waitFor(t, 3)
	want := []string{"event", "follow", "follow:user"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
}

func TestUnrecognizedTypeEmitsEventOnly(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicEvent,
		dispatch.TopicEvent.For(event.SourceUser),
		dispatch.TopicMessage,
		dispatch.TopicFollow,
	)

	e.Enqueue(newBatch("t1",
		event.Event{Type: "things.changed", Source: event.Source{Kind: event.SourceUser}},
		event.Event{Source: event.Source{Kind: event.SourceUser}}, // absent type
		event.Event{Type: event.TypeFollow, Source: event.Source{Kind: event.SourceUser}},
	))

	got := r.waitFor(t, 7)
	want := []string{"event", "event:user", "event", "event:user", "event", "event:user", "follow"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
}

func TestBatchOrderPreserved(t *testing.T) {
	e := startEngine(t)

	var mu sync.Mutex
	var texts []string
	e.Subscribe(dispatch.TopicText, func(_ context.Context, evt *event.Event) {
		mu.Lock()
		defer mu.Unlock()
		texts = append(texts, evt.Message.Text)
	})

	e.Enqueue(newBatch("t1",
		textEvent(event.SourceUser, "first"),
		textEvent(event.SourceUser, "second"),
		textEvent(event.SourceUser, "third"),
	))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(texts)
		mu.Unlock()
		if n == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("text order = %v, want %v", texts, want)
	}
}

func TestAllMatchingTextHandlersFireInOrder(t *testing.T) {
	e := startEngine(t)

	var mu sync.Mutex
	var fired []string
	record := func(name string) dispatch.TextHandler {
		return func(_ context.Context, _ *event.Event, match []string) {
			mu.Lock()
			defer mu.Unlock()
			fired = append(fired, name+":"+match[0])
		}
	}

	e.OnText(regexp.MustCompile(`^hello`), record("prefix"))
	e.OnText(regexp.MustCompile(`never-matches`), record("miss"))
	e.OnText(regexp.MustCompile(`world$`), record("suffix"))

	e.Enqueue(newBatch("t1", textEvent(event.SourceUser, "hello world")))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(fired)
		mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"prefix:hello", "suffix:world"}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
}

func TestTextHandlerSubmatches(t *testing.T) {
	e := startEngine(t)

	matches := make(chan []string, 1)
	e.OnText(regexp.MustCompile(`^order (\d+)$`), func(_ context.Context, _ *event.Event, match []string) {
		matches <- match
	})

	e.Enqueue(newBatch("t1", textEvent(event.SourceUser, "order 42")))

	select {
	case match := <-matches:
		if match[0] != "order 42" || match[1] != "42" {
			t.Errorf("match = %v, want [order 42, 42]", match)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("text handler never fired")
	}
}

func TestImageEmitsContentTopics(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicMessageWithContent,
		dispatch.TopicMessageWithContent.For(event.SourceGroup),
		dispatch.TopicNonText,
		dispatch.TopicNonText.For(event.SourceGroup),
		dispatch.TopicImage,
		dispatch.TopicText,
	)

	e.Enqueue(newBatch("t1", event.Event{
		Type:    event.TypeMessage,
		Source:  event.Source{Kind: event.SourceGroup, GroupID: "G1"},
		Message: &event.Message{ID: "m1", Kind: event.MessageImage},
	}))

	got := r.waitFor(t, 5)
	want := []string{"message-with-content", "message-with-content:group", "non-text", "non-text:group", "image"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
}

func TestStickerEmitsKindWithoutContentTopic(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicMessageWithContent,
		dispatch.TopicNonText,
		dispatch.TopicSticker,
	)

	e.Enqueue(newBatch("t1", event.Event{
		Type:    event.TypeMessage,
		Source:  event.Source{Kind: event.SourceUser},
		Message: &event.Message{ID: "m1", Kind: event.MessageSticker},
	}))

	got := r.waitFor(t, 2)
	want := []string{"non-text", "sticker"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
}

func TestTextMessageNeverEmitsContentTopics(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicText,
		dispatch.TopicNonText,
		dispatch.TopicMessageWithContent,
	)

	e.Enqueue(newBatch("t1", textEvent(event.SourceUser, "hi")))

	got := r.waitFor(t, 1)
	want := []string{"text"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
}

func TestEmptyTextFallsThroughToNonText(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}
	subscribeAll(e, r,
		dispatch.TopicText,
		dispatch.TopicNonText,
		dispatch.TopicMessageWithContent,
	)

	var routed atomic.Int32
	e.OnText(regexp.MustCompile(``), func(_ context.Context, _ *event.Event, _ []string) {
		routed.Add(1)
	})

	e.Enqueue(newBatch("t1", textEvent(event.SourceUser, "")))

	// The non-text branch still publishes the literal kind topic, which
	// for an empty text message is "text" without the routing layer.
	got := r.waitFor(t, 2)
	want := []string{"non-text", "text"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
	if routed.Load() != 0 {
		t.Errorf("text routes fired %d times for empty text", routed.Load())
	}
}

func TestBatchHandlerRunsBeforeEvents(t *testing.T) {
	e := startEngine(t)
	r := &recorder{}

	e.SubscribeBatch(func(_ context.Context, batch *event.Batch) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.topics = append(r.topics, "batch")
	})
	e.Subscribe(dispatch.TopicEvent, r.handler("event"))

	e.Enqueue(newBatch("t1",
		event.Event{Type: event.TypeFollow, Source: event.Source{Kind: event.SourceUser}},
		event.Event{Type: event.TypeFollow, Source: event.Source{Kind: event.SourceUser}},
	))

	got := r.waitFor(t, 3)
	want := []string{"batch", "event", "event"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("emissions = %v, want %v", got, want)
	}
}

func TestEventsTaggedWithTenant(t *testing.T) {
	e := startEngine(t)

	tenants := make(chan string, 1)
	e.Subscribe(dispatch.TopicEvent, func(_ context.Context, evt *event.Event) {
		tenants <- evt.Tenant
	})

	e.Enqueue(newBatch("shop-bot", event.Event{
		Type:   event.TypeFollow,
		Source: event.Source{Kind: event.SourceUser},
	}))

	select {
	case tenant := <-tenants:
		if tenant != "shop-bot" {
			t.Errorf("tenant = %q, want %q", tenant, "shop-bot")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event handler never fired")
	}
}
