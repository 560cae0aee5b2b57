// Command example expands a recurrence rule from configuration and prints
// the occurrence preview a UI would show: the human-readable pattern plus
// the materialized instants in both the rule's timezone and UTC.
//
// Configuration comes from librecur.yaml in the working directory or from
// LIBRECUR_* environment variables, e.g.:
//
//	LIBRECUR_TIMEZONE=America/New_York LIBRECUR_FREQUENCY=WEEKLY \
//	LIBRECUR_WEEKDAYS=MO,WE go run ./example
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/cyp0633/librecur/describe"
	"github.com/cyp0633/librecur/engine"
	"github.com/cyp0633/librecur/ics"
	"github.com/cyp0633/librecur/rule"
	"github.com/emersion/go-ical"
	"github.com/spf13/viper"
)

func main() {
	viper.SetDefault("start", time.Now().UTC().Format(time.RFC3339))
	viper.SetDefault("timezone", "America/New_York")
	viper.SetDefault("frequency", "WEEKLY")
	viper.SetDefault("interval", 1)
	viper.SetDefault("occurrences", 5)
	viper.SetDefault("summary", "Recurring event")

	viper.SetConfigName("librecur")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("librecur")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatalf("read config: %v", err)
		}
	}

	start, err := time.Parse(time.RFC3339, viper.GetString("start"))
	if err != nil {
		log.Fatalf("invalid start instant: %v", err)
	}

	dto := rule.DTO{
		Frequency:  viper.GetString("frequency"),
		Interval:   viper.GetInt("interval"),
		Count:      viper.GetInt("count"),
		Until:      viper.GetString("until"),
		ByWeekday:  viper.GetStringSlice("weekdays"),
		ByMonthDay: viper.GetIntSlice("monthdays"),
		BySetPos:   viper.GetIntSlice("setpos"),
		ByMonth:    viper.GetIntSlice("months"),
		WeekStart:  viper.GetString("wkst"),
		TimeZone:   viper.GetString("timezone"),
	}
	r, err := dto.Rule()
	if err != nil {
		log.Fatalf("invalid rule: %v", err)
	}

	var exclusions []engine.LocalDate
	for _, s := range viper.GetStringSlice("exclusions") {
		d, err := engine.ParseLocalDate(s)
		if err != nil {
			log.Fatalf("invalid exclusion: %v", err)
		}
		exclusions = append(exclusions, d)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	eng := engine.NewEngineWithConfig(engine.Config{
		Logger:                   logger,
		MaxOccurrences:           engine.PreviewConfig.MaxOccurrences,
		CorrectionWindowDays:     engine.PreviewConfig.CorrectionWindowDays,
		WideCorrectionWindowDays: engine.PreviewConfig.WideCorrectionWindowDays,
	})

	count := viper.GetInt("occurrences")
	occurrences, err := eng.ExpandWithExclusions(start, r, count, exclusions)
	if err != nil {
		log.Fatalf("expand: %v", err)
	}

	anchor, err := engine.ResolveAnchor(start, r.TimeZone)
	if err != nil {
		log.Fatalf("resolve anchor: %v", err)
	}

	fmt.Printf("Pattern: %s\n\n", describe.Pattern(anchor, r))
	for i, occ := range occurrences {
		local := occ.In(anchor.Location)
		fmt.Printf("%2d. %s  (%s UTC)\n", i+1,
			local.Format("Mon Jan 2 2006 15:04 MST"),
			occ.Format("2006-01-02 15:04"))
	}

	if path := viper.GetString("ics"); path != "" {
		writePreview(path, viper.GetString("summary"), occurrences)
	}
}

func writePreview(path, summary string, occurrences []time.Time) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	cal := ics.PreviewCalendar(summary, occurrences, time.Hour)
	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	log.Printf("wrote preview calendar to %s", path)
}
