// File: internal/jobs/upload_cleanup.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/upload"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// UploadCleanupJob sweeps orphaned image uploads: objects stored for the
// property form but never claimed by a saved property.
type UploadCleanupJob struct {
	uploadRepo    upload.Repository
	store         upload.ObjectStore
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewUploadCleanupJob creates a new UploadCleanupJob. The store may be nil
// when object storage is unconfigured; the job then only prunes ledger rows.
func NewUploadCleanupJob(
	uploadRepo upload.Repository,
	store upload.ObjectStore,
	logger *zap.Logger,
	cfg *config.Config,
) *UploadCleanupJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &UploadCleanupJob{
		uploadRepo:    uploadRepo,
		store:         store,
		logger:        logger.Named("UploadCleanupJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *UploadCleanupJob) SetupAndStart() error {
	jobSpec := j.cfg.UploadCleanupJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Upload cleanup job schedule not defined (UPLOAD_CLEANUP_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule upload cleanup job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Upload cleanup job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob removes orphaned objects and their ledger rows.
func (j *UploadCleanupJob) runJob() {
	j.logger.Info("Starting upload cleanup job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-j.cfg.UploadOrphanMaxAge)
	orphans, err := j.uploadRepo.FindOrphans(ctx, cutoff)
	if err != nil {
		j.logger.Error("Upload cleanup job run failed", zap.Error(err))
		return
	}

	removed := 0
	for i := range orphans {
		key := orphans[i].Key
		if j.store != nil {
			if err := j.store.Remove(ctx, key); err != nil {
				j.logger.Warn("Failed to remove orphaned object, keeping ledger row", zap.Error(err), zap.String("key", key))
				continue
			}
		}
		if err := j.uploadRepo.DeleteByKey(ctx, key); err != nil {
			j.logger.Warn("Failed to delete orphan ledger row", zap.Error(err), zap.String("key", key))
			continue
		}
		removed++
	}
	j.logger.Info("Upload cleanup job run completed",
		zap.Int("orphans_found", len(orphans)),
		zap.Int("orphans_removed", removed),
	)
}

// Stop gracefully stops the cron scheduler.
func (j *UploadCleanupJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping upload cleanup job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Upload cleanup job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Upload cleanup job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
