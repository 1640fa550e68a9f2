package loader

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geolife_tracker/internal/dataset"
	"geolife_tracker/internal/models"
)

const (
	// DefaultBatchSize is the multi-row insert size per flush.
	DefaultBatchSize = 500
	// DefaultMaxTrackPoints is the per-file point limit; longer files are
	// skipped whole, matching the source dataset's import convention.
	DefaultMaxTrackPoints = 2500
)

// Config tunes the batch loader. Zero values select the defaults; set
// MaxTrackPoints negative to disable the file-size limit.
type Config struct {
	BatchSize      int
	MaxTrackPoints int
}

// SkippedFile records a trajectory file the loader refused, and why.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report summarizes a load run for the operator.
type Report struct {
	Users       int
	Activities  int
	TrackPoints int

	UserBatches       int
	ActivityBatches   int
	TrackPointBatches int

	Skipped []SkippedFile
}

// BatchInsertError is a failed batch flush. Fatal for the remaining run:
// the loader does not retry or skip rows, the operator wipes and restarts.
type BatchInsertError struct {
	Table string
	Err   error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("batch insert into %s failed: %v", e.Table, e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

// IsForeignKeyViolation reports whether err is a Postgres foreign-key
// violation, i.e. the insert ordering guarantee was broken.
func IsForeignKeyViolation(err error) bool {
	return hasSQLState(err, "23503")
}

// IsDuplicateKey reports whether err is a Postgres duplicate-key error —
// the expected failure when reseeding without a wipe.
func IsDuplicateKey(err error) bool {
	return hasSQLState(err, "23505")
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Loader buffers parsed records into per-table batches and flushes each
// batch as one multi-row insert inside its own transaction. Users flush
// before the activities that reference them, activities before their
// trackpoints.
type Loader struct {
	db  *gorm.DB
	cfg Config
}

func New(db *gorm.DB, cfg Config) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxTrackPoints == 0 {
		cfg.MaxTrackPoints = DefaultMaxTrackPoints
	}
	return &Loader{db: db, cfg: cfg}
}

// Run drains the walker and loads everything it yields. The returned
// Report is valid even when err != nil, so a failed run can still tell the
// operator what was skipped and how far it got.
func (l *Loader) Run(w *dataset.Walker) (*Report, error) {
	rep := &Report{}

	// The walker is single-pass; collect the descriptors up front so users
	// can be seeded as one stream before any activity references them.
	var users []*dataset.UserDir
	for w.Next() {
		users = append(users, w.User())
	}
	if err := w.Err(); err != nil {
		return rep, err
	}

	if err := l.seedUsers(users, rep); err != nil {
		return rep, err
	}
	if err := l.seedActivities(users, rep); err != nil {
		return rep, err
	}

	return rep, nil
}

func (l *Loader) seedUsers(users []*dataset.UserDir, rep *Report) error {
	batch := make([]models.User, 0, l.cfg.BatchSize)
	for _, u := range users {
		if u.LabelsErr != nil {
			logrus.WithError(u.LabelsErr).WithField("user", u.ID).
				Warn("label file unreadable, activities will stay unlabeled")
		}
		batch = append(batch, models.User{ID: u.ID, HasLabels: u.HasLabels})
		if len(batch) == l.cfg.BatchSize {
			if err := flushBatch(l.db, "users", &batch, &rep.UserBatches); err != nil {
				return err
			}
		}
	}
	if err := flushBatch(l.db, "users", &batch, &rep.UserBatches); err != nil {
		return err
	}
	rep.Users = len(users)
	return nil
}

func (l *Loader) seedActivities(users []*dataset.UserDir, rep *Report) error {
	actBatch := make([]models.Activity, 0, l.cfg.BatchSize)
	// Points whose activity row has not been flushed yet. They move into
	// tpBatch only after the owning activities are committed, which keeps
	// the foreign-key ordering intact.
	var held []models.TrackPoint
	var tpBatch []models.TrackPoint

	flushActs := func() error {
		if err := flushBatch(l.db, "activities", &actBatch, &rep.ActivityBatches); err != nil {
			return err
		}
		tpBatch = append(tpBatch, held...)
		held = held[:0]
		for len(tpBatch) >= l.cfg.BatchSize {
			chunk := tpBatch[:l.cfg.BatchSize:l.cfg.BatchSize]
			if err := flushBatch(l.db, "track_points", &chunk, &rep.TrackPointBatches); err != nil {
				return err
			}
			tpBatch = tpBatch[l.cfg.BatchSize:]
		}
		return nil
	}

	for _, u := range users {
		for _, path := range u.TrajectoryFiles {
			traj, err := dataset.ParseTrajectory(path)
			if err != nil {
				var malformed *dataset.MalformedRecordError
				if errors.As(err, &malformed) {
					logrus.WithError(err).WithField("user", u.ID).Warn("skipping malformed trajectory file")
					rep.Skipped = append(rep.Skipped, SkippedFile{Path: path, Reason: err.Error()})
					continue
				}
				return err
			}
			if l.cfg.MaxTrackPoints > 0 && len(traj.Points) > l.cfg.MaxTrackPoints {
				rep.Skipped = append(rep.Skipped, SkippedFile{
					Path:   path,
					Reason: fmt.Sprintf("%d trackpoints exceed the %d limit", len(traj.Points), l.cfg.MaxTrackPoints),
				})
				continue
			}

			id := dataset.ActivityID(u.ID, path)
			actBatch = append(actBatch, models.Activity{
				ID:                 id,
				UserID:             u.ID,
				TransportationMode: u.Labels.Match(traj.Start, traj.End),
				StartDatetime:      traj.Start,
				EndDatetime:        traj.End,
			})
			for _, p := range traj.Points {
				held = append(held, models.TrackPoint{
					ActivityID: id,
					Latitude:   p.Latitude,
					Longitude:  p.Longitude,
					Altitude:   p.Altitude,
					DateDays:   p.DateDays,
					Datetime:   p.Datetime,
				})
			}
			rep.Activities++
			rep.TrackPoints += len(traj.Points)

			if len(actBatch) == l.cfg.BatchSize {
				if err := flushActs(); err != nil {
					return err
				}
			}
		}
	}

	// Final partial batches; nothing gets dropped at end of stream.
	if err := flushActs(); err != nil {
		return err
	}
	return flushBatch(l.db, "track_points", &tpBatch, &rep.TrackPointBatches)
}

// flushBatch writes one batch as a single multi-row insert inside its own
// transaction, so a mid-batch failure leaves no partially visible batch.
// Empty buffers are a no-op.
func flushBatch[T any](db *gorm.DB, table string, batch *[]T, counter *int) error {
	if len(*batch) == 0 {
		return nil
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(*batch).Error
	})
	if err != nil {
		return &BatchInsertError{Table: table, Err: err}
	}
	*counter++
	*batch = (*batch)[:0]
	return nil
}
