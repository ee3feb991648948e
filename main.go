package main

import (
	"flag"
	"log"
)

func main() {
	apiKey := flag.String("api-key", "", "LLM API key(s), comma separated (overrides config/env)")
	keysFile := flag.String("keys-file", "", "file with one API key per line, # comments allowed")
	rounds := flag.Int("rounds", 0, "extraction rounds (overrides config)")
	minFreq := flag.Int("min-freq", 0, "minimum frequency threshold (overrides config)")
	days := flag.Int("days", 0, "time window in days (overrides config)")
	batchSize := flag.Int("batch-size", 0, "texts per LLM batch (overrides config)")
	hotwordsFile := flag.String("hotwords-file", "", "path of the hotwords store (overrides config)")
	output := flag.String("output", "", "report output directory (overrides config)")
	daemon := flag.Bool("daemon", false, "run on the cron schedule instead of once")
	history := flag.Int("history", 0, "print the last N harvest runs and exit")
	flag.Parse()

	cfg := LoadConfig(*apiKey, *keysFile)
	if *rounds > 0 {
		cfg.ExtractRounds = *rounds
	}
	if *minFreq > 0 {
		cfg.MinFrequency = *minFreq
	}
	if *days > 0 {
		cfg.TimeWindowDays = *days
	}
	if *batchSize > 0 {
		cfg.BatchSize = *batchSize
	}
	if *hotwordsFile != "" {
		cfg.HotwordsFile = *hotwordsFile
	}
	if *output != "" {
		cfg.OutputDir = *output
	}

	if *history > 0 {
		if err := printHistory(cfg, *history); err != nil {
			log.Fatalf("history failed: %v", err)
		}
		return
	}

	if *daemon {
		runDaemon(cfg)
		return
	}

	if err := RunHarvest(cfg); err != nil {
		log.Fatalf("harvest failed: %v", err)
	}
}
