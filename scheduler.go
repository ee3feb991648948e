package main

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultHarvestSchedule = "0 6 * * *"

// runDaemon runs harvests on the configured cron schedule until the
// process is stopped. A failed run is logged and the loop continues.
func runDaemon(cfg Config) {
	scheduleSpec := cfg.HarvestSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultHarvestSchedule
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(scheduleSpec)
	if err != nil {
		log.Fatalf("invalid harvest_schedule '%s': %v", scheduleSpec, err)
	}

	log.Printf("daemon started schedule=%q", scheduleSpec)
	for {
		next := schedule.Next(time.Now())
		log.Printf("next harvest at %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(time.Until(next))

		if err := RunHarvest(cfg); err != nil {
			log.Printf("scheduled harvest failed: %v", err)
		}
	}
}
