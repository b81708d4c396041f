package kafkaconsumer

import (
	"testing"
	"time"
)

func TestNewConfigSplitsBrokerList(t *testing.T) {
	cfg := NewConfig("broker-a:9092, broker-b:9092,,broker-c:9092 ", "catalog-invalidation", "sia-cache-invalidator")

	want := []string{"broker-a:9092", "broker-b:9092", "broker-c:9092"}
	if len(cfg.Brokers) != len(want) {
		t.Fatalf("brokers = %v, want %v", cfg.Brokers, want)
	}
	for i := range want {
		if cfg.Brokers[i] != want[i] {
			t.Fatalf("brokers = %v, want %v", cfg.Brokers, want)
		}
	}
	if cfg.Topic != "catalog-invalidation" || cfg.GroupID != "sia-cache-invalidator" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("localhost:9092", "t", "g")
	if cfg.SessionTimeout != 30*time.Second || cfg.Heartbeat != 3*time.Second {
		t.Fatalf("unexpected group timing: %+v", cfg)
	}
	if !cfg.InitialOffsetOldest {
		t.Fatalf("consumer must start from the oldest offset")
	}
	if cfg.DedupeSize != 4096 {
		t.Fatalf("DedupeSize = %d", cfg.DedupeSize)
	}
}
