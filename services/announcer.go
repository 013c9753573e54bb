package services

import (
	"fmt"
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Announcement is the payload handed to the notification sink when an
// achievement unlocks.
type Announcement struct {
	GuildID      int64  `json:"guild_id"`
	UserID       int64  `json:"user_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	RewardItemID string `json:"reward_item_id,omitempty"`
	AutoEquipped bool   `json:"auto_equipped"`
}

// Announcer delivers achievement announcements. It is optional and
// best-effort: the unlock is durable whether or not delivery works.
type Announcer interface {
	AnnounceUnlock(a Announcement) error
}

var coinPrinter = message.NewPrinter(language.English)

// FormatCoins renders a coin amount for display, with digit grouping
// ("12,500"). Ids are never formatted this way; only counts shown to members.
func FormatCoins(n int64) string {
	return coinPrinter.Sprintf("%d", n)
}

// LogAnnouncer is the fallback sink: it just writes to the process log.
type LogAnnouncer struct{}

func NewLogAnnouncer() *LogAnnouncer {
	return &LogAnnouncer{}
}

func (l *LogAnnouncer) AnnounceUnlock(a Announcement) error {
	line := fmt.Sprintf("🏆 Achievement unlocked: guild=%d user=%d %s (%s)", a.GuildID, a.UserID, a.Name, a.Code)
	if a.RewardItemID != "" {
		line += " reward=" + a.RewardItemID
		if a.AutoEquipped {
			line += " (equipped)"
		}
	}
	log.Println(line)
	return nil
}
