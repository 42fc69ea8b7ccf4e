package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/careflow/domain"
)

// ActivityRecorder abstracts the mutation journal so use cases stay storage-agnostic.
type ActivityRecorder interface {
	Record(ctx context.Context, activity domain.Activity) error
}

// RecordActivity appends to recorder when one is configured. Journal failures
// are logged and never surface to the caller.
func RecordActivity(ctx context.Context, recorder ActivityRecorder, logger *zap.Logger, entity, action, subjectID, actorID string) {
	if recorder == nil {
		return
	}
	activity := domain.Activity{
		Entity:    entity,
		Action:    action,
		SubjectID: subjectID,
		ActorID:   actorID,
	}
	if err := recorder.Record(ctx, activity); err != nil && logger != nil {
		logger.Warn("failed to record activity",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
	}
}
