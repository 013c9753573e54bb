package services

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestFormatCoins(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{12500, "12,500"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatCoins(tt.n); got != tt.want {
			t.Fatalf("FormatCoins(%d): expected %q, got %q", tt.n, tt.want, got)
		}
	}
}

func TestLogAnnouncerKeepsIDsPlain(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	a := Announcement{
		GuildID:      1234567890,
		UserID:       987654321,
		Code:         "MSG_100",
		Name:         "Chatterbox",
		RewardItemID: "title_002",
		AutoEquipped: true,
	}
	if err := NewLogAnnouncer().AnnounceUnlock(a); err != nil {
		t.Fatalf("announce: %v", err)
	}

	out := buf.String()
	// snowflake ids are identifiers, not counts: no grouping separators
	if !strings.Contains(out, "guild=1234567890 user=987654321") {
		t.Fatalf("expected plain ids in log line, got %q", out)
	}
	if !strings.Contains(out, "reward=title_002 (equipped)") {
		t.Fatalf("expected reward suffix, got %q", out)
	}
}
