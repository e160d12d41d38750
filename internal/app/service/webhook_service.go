package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
)

// ChangePublisher forwards row changes to realtime subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, change model.Change) error
}

// WebhookService accepts change notifications pushed by a hosted database
// and republishes them on the realtime broker.
type WebhookService struct {
	publisher ChangePublisher
	logger    *slog.Logger
}

func NewWebhookService(publisher ChangePublisher, logger *slog.Logger) *WebhookService {
	return &WebhookService{publisher: publisher, logger: logger}
}

// sensitiveColumns never leave the server, whatever the webhook sender
// includes.
var sensitiveColumns = []string{"password_hash", "account_number", "ifsc_code"}

func (s *WebhookService) HandleChange(ctx context.Context, change model.Change) error {
	change.Type = strings.ToUpper(change.Type)
	if !slices.Contains(model.ChangeTables, change.Table) {
		return fmt.Errorf("unknown table %q: %w", change.Table, common.ErrValidation)
	}
	switch change.Type {
	case model.ChangeInsert, model.ChangeUpdate, model.ChangeDelete:
	default:
		return fmt.Errorf("unknown change type %q: %w", change.Type, common.ErrValidation)
	}

	var err error
	if change.Record, err = redact(change.Record); err != nil {
		return fmt.Errorf("record is not a JSON object: %w", common.ErrValidation)
	}
	if change.OldRecord, err = redact(change.OldRecord); err != nil {
		return fmt.Errorf("old_record is not a JSON object: %w", common.ErrValidation)
	}

	if err := s.publisher.Publish(ctx, change); err != nil {
		return fmt.Errorf("failed to publish change: %w: %w", common.ErrServiceUnavailable, err)
	}
	s.logger.DebugContext(ctx, "webhook change published", "table", change.Table, "type", change.Type)
	return nil
}

func redact(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return raw, nil
	}
	var row map[string]json.RawMessage
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	for _, col := range sensitiveColumns {
		delete(row, col)
	}
	return json.Marshal(row)
}
