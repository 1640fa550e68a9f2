package main

import (
	"flag"
	"log"

	"github.com/sirupsen/logrus"

	"geolife_tracker/internal/config"
	"geolife_tracker/internal/dataset"
	"geolife_tracker/internal/loader"
	"geolife_tracker/internal/logger"
	"geolife_tracker/internal/schema"
)

func main() {
	datasetDir := flag.String("dataset", config.DatasetDir(), "dataset root (contains data/ and labeled_ids.txt)")
	batchSize := flag.Int("batch-size", loader.DefaultBatchSize, "rows per bulk insert")
	maxPoints := flag.Int("max-trackpoints", loader.DefaultMaxTrackPoints, "skip trajectory files with more points than this (negative disables)")
	wipe := flag.Bool("wipe", false, "drop all tables before loading")
	flag.Parse()

	logger.Setup()

	db, err := config.OpenDB()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if *wipe {
		done := logger.Timed("wipe")
		if err := schema.Wipe(db); err != nil {
			log.Fatalf("wipe failed: %v", err)
		}
		done()
	}

	done := logger.Timed("migrate")
	if err := schema.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	done()

	walker, err := dataset.NewWalker(*datasetDir)
	if err != nil {
		log.Fatalf("dataset walk failed: %v", err)
	}

	done = logger.Timed("seed")
	l := loader.New(db, loader.Config{BatchSize: *batchSize, MaxTrackPoints: *maxPoints})
	rep, err := l.Run(walker)
	report(rep)
	if err != nil {
		if loader.IsDuplicateKey(err) {
			log.Fatalf("seed failed on duplicate key — the database already holds a load, rerun with -wipe: %v", err)
		}
		log.Fatalf("seed failed: %v", err)
	}
	done()

	done = logger.Timed("create_indices")
	if err := schema.CreateIndices(db); err != nil {
		log.Fatalf("index creation failed: %v", err)
	}
	done()
}

// report logs what happened, including on failed runs, so the operator can
// judge completeness.
func report(rep *loader.Report) {
	for _, s := range rep.Skipped {
		logrus.WithFields(logrus.Fields{
			"file":   s.Path,
			"reason": s.Reason,
		}).Warn("skipped trajectory file")
	}
	logrus.WithFields(logrus.Fields{
		"users":              rep.Users,
		"activities":         rep.Activities,
		"track_points":       rep.TrackPoints,
		"user_batches":       rep.UserBatches,
		"activity_batches":   rep.ActivityBatches,
		"trackpoint_batches": rep.TrackPointBatches,
		"skipped_files":      len(rep.Skipped),
	}).Info("load finished")
}
