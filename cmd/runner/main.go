package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/config"
	"github.com/adcapture/shoot-scheduler-go/pkg/database"
	"github.com/adcapture/shoot-scheduler-go/pkg/scheduler"
	"github.com/joho/godotenv"
)

// The cron entry point: one scheduling pass over the task store, summary on
// stdout, non-zero exit only on fatal configuration problems.
func main() {
	horizon := flag.Int("horizon", 0, "planning horizon in weeks (default from config: 4)")
	weekdays := flag.String("weekdays", "", "allowed shoot weekdays, e.g. tue,thu,fri")
	areaMap := flag.String("areas", "", "path to the area mapping YAML (default $AREA_MAP_PATH or areas.yaml)")
	flag.Parse()

	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("bad schedule config: %v", err)
	}
	if *horizon > 0 {
		cfg.HorizonWeeks = *horizon
	}
	if *weekdays != "" {
		days, err := config.ParseWeekdays(*weekdays)
		if err != nil {
			log.Fatalf("bad weekdays: %v", err)
		}
		cfg.AllowedWeekdays = days
	}

	path := *areaMap
	if path == "" {
		path = os.Getenv("AREA_MAP_PATH")
	}
	if path == "" {
		path = "areas.yaml"
	}
	areas, err := config.LoadAreaTable(path)
	if err != nil {
		log.Fatalf("could not load area table: %v", err)
	}

	db := database.InitDB()
	sched := scheduler.New(
		&database.GormTaskStore{DB: db},
		&database.OutboxNotifier{DB: db},
		scheduler.SystemClock{},
		cfg,
		areas,
	)

	startedAt := time.Now()
	summary, err := sched.Run()
	if err != nil {
		log.Fatalf("scheduling pass aborted: %v", err)
	}

	if _, err := database.SaveRun(db, startedAt, summary); err != nil {
		log.Printf("could not persist run record: %v", err)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
