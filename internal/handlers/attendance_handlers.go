// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

// Package handlers exposes the attendance service over NATS request/reply.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/internal/logging"
	"github.com/campushq/attendance-service/internal/service"
)

// AttendanceHandler handles attendance-related messages.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

func (h *AttendanceHandler) HandlerReady() bool {
	return h.attendanceService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *AttendanceHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.AttendanceDetectSubject:     h.HandleDetect,
		models.AttendanceDetectBulkSubject: h.HandleDetectBulk,
		models.AttendanceApplySubject:      h.HandleApply,
		models.AttendanceDismissSubject:    h.HandleDismiss,
		models.AttendanceCalculateSubject:  h.HandleCalculate,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		h.respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		h.respond(ctx, msg, errorResponse(err))
		return
	}

	h.respond(ctx, msg, response)
}

func (h *AttendanceHandler) respond(ctx context.Context, msg domain.Message, response []byte) {
	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "responded to NATS message")
}

// errorResponse encodes a handler error so request/reply callers can
// distinguish failures from empty results.
func errorResponse(err error) []byte {
	payload := struct {
		Error string `json:"error"`
	}{Error: err.Error()}

	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return nil
	}
	return data
}

// HandleDetect is the message handler for the attendance detect subject.
func (h *AttendanceHandler) HandleDetect(ctx context.Context, msg domain.Message) ([]byte, error) {
	var request models.DetectRequest
	if err := json.Unmarshal(msg.Data(), &request); err != nil {
		return nil, domain.NewValidationError("invalid detect request payload", err)
	}

	result, err := h.attendanceService.Detect(ctx, request.SessionUID, request.Force)
	if err != nil {
		return nil, err
	}

	return json.Marshal(result)
}

// HandleDetectBulk is the message handler for the bulk detection subject.
func (h *AttendanceHandler) HandleDetectBulk(ctx context.Context, msg domain.Message) ([]byte, error) {
	var request models.DetectRequest
	if len(msg.Data()) > 0 {
		if err := json.Unmarshal(msg.Data(), &request); err != nil {
			return nil, domain.NewValidationError("invalid bulk detect request payload", err)
		}
	}

	report, err := h.attendanceService.DetectBulk(ctx, request.Force)
	if err != nil {
		return nil, err
	}

	return json.Marshal(report)
}

// HandleApply is the message handler for the apply subject.
func (h *AttendanceHandler) HandleApply(ctx context.Context, msg domain.Message) ([]byte, error) {
	var request models.ApplyRequest
	if err := json.Unmarshal(msg.Data(), &request); err != nil {
		return nil, domain.NewValidationError("invalid apply request payload", err)
	}

	counts, err := h.attendanceService.Apply(ctx, request.SessionUID, request.EffectiveEndMinutes)
	if err != nil {
		return nil, err
	}

	return json.Marshal(counts)
}

// HandleDismiss is the message handler for the dismiss subject.
func (h *AttendanceHandler) HandleDismiss(ctx context.Context, msg domain.Message) ([]byte, error) {
	var request models.SessionRequest
	if err := json.Unmarshal(msg.Data(), &request); err != nil {
		return nil, domain.NewValidationError("invalid dismiss request payload", err)
	}

	counts, err := h.attendanceService.Dismiss(ctx, request.SessionUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(counts)
}

// HandleCalculate is the message handler for the calculate subject.
func (h *AttendanceHandler) HandleCalculate(ctx context.Context, msg domain.Message) ([]byte, error) {
	var request models.SessionRequest
	if err := json.Unmarshal(msg.Data(), &request); err != nil {
		return nil, domain.NewValidationError("invalid calculate request payload", err)
	}

	counts, err := h.attendanceService.Calculate(ctx, request.SessionUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(counts)
}
