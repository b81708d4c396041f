package kafkaconsumer

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

type fakeCache struct {
	mu     sync.Mutex
	purged []string
	fail   bool
}

func (f *fakeCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (f *fakeCache) Set(context.Context, string, []byte, time.Duration, ...string) error {
	return nil
}

func (f *fakeCache) PurgeTag(_ context.Context, tag string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("redis down")
	}
	f.purged = append(f.purged, tag)
	return 1, nil
}

func newTestConsumer(t *testing.T, fc *fakeCache) *Consumer {
	t.Helper()
	zl := zerolog.New(io.Discard)
	return New(Config{DedupeSize: 8}, &zl, fc)
}

func msgWith(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "catalog-invalidation", Value: []byte(value)}
}

func TestProcessOnePurgesCollectionAndCatchAll(t *testing.T) {
	fc := &fakeCache{}
	c := newTestConsumer(t, fc)

	err := c.ProcessOne(context.Background(), msgWith(
		`{"version":1,"op":"update","collection":"deep_survey_dr2","ts":"2026-03-14T09:15:00Z"}`))
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	want := []string{"sia:coll:deep_survey_dr2", "sia:coll:*"}
	if len(fc.purged) != len(want) {
		t.Fatalf("purged %v, want %v", fc.purged, want)
	}
	for i := range want {
		if fc.purged[i] != want[i] {
			t.Fatalf("purged %v, want %v", fc.purged, want)
		}
	}
}

func TestProcessOneSkipsStaleVersion(t *testing.T) {
	fc := &fakeCache{}
	c := newTestConsumer(t, fc)
	ctx := context.Background()

	ev := `{"version":5,"op":"insert","collection":"wide_field_dr1","ts":"2026-03-14T09:15:00Z"}`
	if err := c.ProcessOne(ctx, msgWith(ev)); err != nil {
		t.Fatalf("first ProcessOne: %v", err)
	}
	if err := c.ProcessOne(ctx, msgWith(ev)); err != nil {
		t.Fatalf("replayed ProcessOne: %v", err)
	}

	if len(fc.purged) != 2 {
		t.Fatalf("replay must not purge again, got %d purges", len(fc.purged))
	}
}

func TestProcessOneAllowsNewerVersion(t *testing.T) {
	fc := &fakeCache{}
	c := newTestConsumer(t, fc)
	ctx := context.Background()

	for _, v := range []string{
		`{"version":1,"op":"insert","collection":"wide_field_dr1","ts":"2026-03-14T09:15:00Z"}`,
		`{"version":2,"op":"update","collection":"wide_field_dr1","ts":"2026-03-14T09:16:00Z"}`,
	} {
		if err := c.ProcessOne(ctx, msgWith(v)); err != nil {
			t.Fatalf("ProcessOne: %v", err)
		}
	}
	if len(fc.purged) != 4 {
		t.Fatalf("expected both versions applied, got %d purges", len(fc.purged))
	}
}

func TestProcessOneSkipsBadMessages(t *testing.T) {
	fc := &fakeCache{}
	c := newTestConsumer(t, fc)
	ctx := context.Background()

	if err := c.ProcessOne(ctx, msgWith(`{not json`)); err != nil {
		t.Fatalf("undecodable message must be skipped, got %v", err)
	}
	if err := c.ProcessOne(ctx, msgWith(`{"version":1,"op":"drop","collection":"x","ts":"2026-03-14T09:15:00Z"}`)); err != nil {
		t.Fatalf("invalid event must be skipped, got %v", err)
	}
	if len(fc.purged) != 0 {
		t.Fatalf("bad messages must not purge, got %v", fc.purged)
	}
}

func TestProcessOneRetriesAfterPurgeFailure(t *testing.T) {
	fc := &fakeCache{fail: true}
	c := newTestConsumer(t, fc)
	ctx := context.Background()

	ev := `{"version":9,"op":"delete","collection":"deep_survey_dr2","ts":"2026-03-14T09:15:00Z"}`
	if err := c.ProcessOne(ctx, msgWith(ev)); err == nil {
		t.Fatalf("expected error when purge fails")
	}

	// The failed version must not count as applied.
	fc.fail = false
	if err := c.ProcessOne(ctx, msgWith(ev)); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(fc.purged) != 2 {
		t.Fatalf("retry should purge both tags, got %v", fc.purged)
	}
}
