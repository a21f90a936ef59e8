package usecase

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
)

// RecordViewUseCase applies queued view events with the storage's atomic increment.
type RecordViewUseCase struct {
	counter port.ViewCounterPort
}

func NewRecordViewUseCase(counter port.ViewCounterPort) *RecordViewUseCase {
	return &RecordViewUseCase{counter: counter}
}

func (uc *RecordViewUseCase) Execute(ctx context.Context, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "RecordView",
		"property_id": propertyID,
	})

	if propertyID == "" {
		return fmt.Errorf("record view: property id is empty")
	}

	if err := uc.counter.RecordView(ctx, propertyID); err != nil {
		logger.Error("Failed to apply view event", err, nil)
		return err
	}

	logger.Debug("View event applied", nil)
	return nil
}
