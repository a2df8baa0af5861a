package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"jobboard-chat/internal/mocks"
	"jobboard-chat/internal/telemetry"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.chat", "jobboard-chat", "test")

	userID := int64(7)
	publisher.On("Publish", mock.Anything, "audit.chat", mock.MatchedBy(func(event any) bool {
		env, ok := event.(telemetry.AuditEnvelope)
		return ok &&
			env.SchemaVersion == 1 &&
			env.EventType == "audit_log" &&
			env.Service == "jobboard-chat" &&
			env.Environment == "test" &&
			env.RequestID == "req-1" &&
			env.UserID != nil && *env.UserID == 7 &&
			env.Payload.Level == "INFO" &&
			env.Payload.Text == "room 3 created"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "INFO", "room 3 created", "req-1", &userID)
	publisher.AssertExpectations(t)
}

func TestEmitSurvivesPublishFailure(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.chat", "jobboard-chat", "test")

	publisher.On("Publish", mock.Anything, "audit.chat", mock.Anything).
		Return(errors.New("broker down")).Once()

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "ERROR", "boom", "req-2", nil)
	})
	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterIsNoop(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "ignored", "req-3", nil)
	})
}
