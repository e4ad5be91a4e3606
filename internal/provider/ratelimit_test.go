package provider

import (
	"context"
	"testing"
	"time"
)

func TestWaitUnknownProviderIsNoop(t *testing.T) {
	m := NewRateLimiterMap()
	if err := m.Wait(context.Background(), ProviderName("mystery")); err != nil {
		t.Errorf("Wait: %v", err)
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	m := NewRateLimiterMap()
	ctx := context.Background()

	// Drain the burst so the next Wait has to block.
	if err := m.Wait(ctx, NameAudioDB); err != nil {
		t.Fatalf("draining burst: %v", err)
	}

	canceled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := m.Wait(canceled, NameAudioDB); err == nil {
		t.Error("expected error when context expires before the limiter allows")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name ProviderName
		want string
	}{
		{NameLastFM, "Last.fm"},
		{NameAudioDB, "TheAudioDB"},
		{NameWikidata, "Wikidata"},
		{NameSpotify, "Spotify"},
		{ProviderName("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.name.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
