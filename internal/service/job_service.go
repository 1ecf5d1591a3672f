package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"medibook/internal/db"
	"medibook/internal/repository"
)

// cartTTL is how long an unpaid consultation may sit in a cart before its
// slot is released.
const cartTTL = 30 * time.Minute

// JobService hosts the periodic maintenance jobs run from cron.
type JobService struct {
	Jobs *repository.JobRepository
}

func NewJobService(jobs *repository.JobRepository) *JobService {
	return &JobService{Jobs: jobs}
}

// CompleteFinishedConsultations moves paid, scheduled consultations whose end
// time has passed to COMPLETED. This is the only writer of that status.
func (s *JobService) CompleteFinishedConsultations() {
	ids, err := s.Jobs.GetScheduledIDsPastEndTime()
	if err != nil {
		log.Error().Err(err).Msg("sweeper: could not query finished consultations")
		return
	}
	if len(ids) == 0 {
		return
	}
	updated, err := s.Jobs.UpdateConsultationStatuses(ids, db.StatusCompleted)
	if err != nil {
		log.Error().Err(err).Msg("sweeper: could not mark consultations completed")
		return
	}
	log.Info().Int64("updated", updated).Msg("sweeper: consultations marked completed")
}

// PurgeStaleCartItems deletes unpaid in-cart consultations older than the
// cart TTL so their slots become bookable again.
func (s *JobService) PurgeStaleCartItems() {
	deleted, err := s.Jobs.DeleteStaleCartItems(time.Now().Add(-cartTTL))
	if err != nil {
		log.Error().Err(err).Msg("cart purge failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("stale cart items purged")
	}
}
