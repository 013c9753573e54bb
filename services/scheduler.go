package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDefinitionRefresher keeps achievement definitions current in every
// guild that has them: the stock catalog is re-upserted hourly so edits to
// the rule table roll out without a request having to trigger seeding first.
// Runs in the caller layer; the core itself owns no background work.
func (s *AchievementService) StartDefinitionRefresher() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			guilds, err := s.SeededGuilds()
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, guildID := range guilds {
				if err := s.SeedDefinitions(guildID); err != nil {
					log.Printf("[Scheduler] Failed to refresh definitions for guild %d: %v", guildID, err)
				}
			}
			if len(guilds) > 0 {
				log.Printf("✅ Refreshed achievement definitions for %d guild(s)", len(guilds))
			}
		}),
	)
}
