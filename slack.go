package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// notifySlack posts the run summary to the configured channel. Failure
// to notify never fails the run.
func notifySlack(cfg Config, run RunRecord, added []HotTerm) {
	if cfg.SlackBotToken == "" || cfg.SlackChannelID == "" {
		return
	}

	api := slack.New(cfg.SlackBotToken)

	var b strings.Builder
	fmt.Fprintf(&b, "*热词收集完成* (%s)\n", run.FinishedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "原始内容 %d 条，抽取 %d 次，去重后 %d 个词\n", run.RawTexts, run.RawTerms, run.UniqueTerms)
	fmt.Fprintf(&b, "高频词 %d 个，新增 %d 个（跳过 %d 重复 / %d 单复数，%d 个版本变体待复核）\n",
		run.HighFreqTerms, run.AddedTerms, run.SkippedExact, run.SkippedPlural, run.VersionWarnings)
	fmt.Fprintf(&b, "耗时 %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))

	if len(added) > 0 {
		show := added
		if len(show) > 20 {
			show = show[:20]
		}
		var names []string
		for _, t := range show {
			names = append(names, t.Term)
		}
		fmt.Fprintf(&b, "新词: %s", strings.Join(names, ", "))
		if len(added) > len(show) {
			fmt.Fprintf(&b, " …共 %d 个", len(added))
		}
	}

	_, _, err := api.PostMessage(cfg.SlackChannelID,
		slack.MsgOptionText(b.String(), false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		log.Printf("slack notify failed: %v", err)
		return
	}
	log.Printf("slack notify sent to %s", cfg.SlackChannelID)
}
