// Package service contains the operation logic for the stay catalog.
// Services orchestrate repo calls, generate message IDs and broadcast
// change events. No store queries live here: services depend on the
// repo.StayRepo interface, not on an implementation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
	"github.com/GuyBarda/airbxb-backend/internal/events"
	"github.com/GuyBarda/airbxb-backend/internal/idgen"
	"github.com/GuyBarda/airbxb-backend/internal/metrics"
	"github.com/GuyBarda/airbxb-backend/internal/repo"
)

// EventPublisher broadcasts stay changes. Implemented by events.NATSPublisher
// and events.Noop.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.StayEvent) error
}

// StayService implements the stay operations.
// Store errors are returned wrapped but otherwise unchanged; event
// publication is best-effort and never fails an operation.
type StayService struct {
	repo   repo.StayRepo
	events EventPublisher
	log    *slog.Logger
	newID  func() string
}

// NewStayService constructs a StayService backed by the provided repo.
// A nil publisher disables events; a nil logger uses slog.Default().
func NewStayService(r repo.StayRepo, pub EventPublisher, log *slog.Logger) *StayService {
	if pub == nil {
		pub = events.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &StayService{repo: r, events: pub, log: log, newID: idgen.MakeID}
}

// List returns the page of stays selected by f with the total match count.
// Stays is never nil.
func (s *StayService) List(ctx context.Context, f domain.StayFilter) (domain.StayPage, error) {
	f = f.Normalize()

	var (
		stays []domain.Stay
		total int64
	)
	err := s.observe("list", func() (err error) {
		stays, total, err = s.repo.List(ctx, f)
		return err
	})
	if err != nil {
		return domain.StayPage{}, fmt.Errorf("service.StayService.List: %w", err)
	}
	if stays == nil {
		stays = []domain.Stay{}
	}
	return domain.StayPage{Stays: stays, TotalCount: total}, nil
}

// GetByID returns a single stay.
// Returns domain.ErrNotFound if it does not exist and domain.ErrInvalidID if
// id is not a valid store ID.
func (s *StayService) GetByID(ctx context.Context, id string) (domain.Stay, error) {
	var stay domain.Stay
	err := s.observe("get", func() (err error) {
		stay, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Stay{}, fmt.Errorf("service.StayService.GetByID: %w", err)
	}
	return stay, nil
}

// Add persists stay as-is and returns it with its new ID.
func (s *StayService) Add(ctx context.Context, stay domain.Stay) (domain.Stay, error) {
	var added domain.Stay
	err := s.observe("add", func() (err error) {
		added, err = s.repo.Create(ctx, stay)
		return err
	})
	if err != nil {
		return domain.Stay{}, fmt.Errorf("service.StayService.Add: %w", err)
	}

	s.publish(ctx, domain.StayEvent{Type: domain.StayAdded, StayID: added.ID, Data: added})
	return added, nil
}

// Update sets the listed top-level fields of the stay identified by stay.ID
// and returns the input. Zero values are written as given, so a listed field
// can be set to 0 or cleared. The identifier and the message thread are never
// part of the replacement.
func (s *StayService) Update(ctx context.Context, stay domain.Stay, fields []string) (domain.Stay, error) {
	fields = domain.UpdatableFields(fields)
	if len(fields) == 0 {
		return stay, nil
	}
	err := s.observe("update", func() error {
		return s.repo.Update(ctx, stay, fields)
	})
	if err != nil {
		return domain.Stay{}, fmt.Errorf("service.StayService.Update: %w", err)
	}

	s.publish(ctx, domain.StayEvent{Type: domain.StayUpdated, StayID: stay.ID, Data: stay})
	return stay, nil
}

// Remove permanently deletes a stay and returns its ID.
// Removing a stay that does not exist still returns id.
func (s *StayService) Remove(ctx context.Context, id string) (string, error) {
	err := s.observe("remove", func() error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return "", fmt.Errorf("service.StayService.Remove: %w", err)
	}

	s.publish(ctx, domain.StayEvent{Type: domain.StayRemoved, StayID: id})
	return id, nil
}

// AddMessage appends a message with a freshly generated ID to the stay's
// thread and returns it.
func (s *StayService) AddMessage(ctx context.Context, stayID, txt string, by *domain.MiniUser) (domain.Message, error) {
	msg := domain.Message{ID: s.newID(), Txt: txt, By: by}

	err := s.observe("add_msg", func() error {
		return s.repo.PushMessage(ctx, stayID, msg)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("service.StayService.AddMessage: %w", err)
	}

	evt := domain.StayEvent{Type: domain.StayMsgAdded, StayID: stayID, MsgID: msg.ID, Data: msg}
	if by != nil {
		evt.UserID = by.ID
	}
	s.publish(ctx, evt)
	return msg, nil
}

// RemoveMessage removes the message msgID from the stay's thread and returns
// msgID. An unknown msgID leaves the thread untouched and still succeeds.
func (s *StayService) RemoveMessage(ctx context.Context, stayID, msgID string) (string, error) {
	err := s.observe("remove_msg", func() error {
		return s.repo.PullMessage(ctx, stayID, msgID)
	})
	if err != nil {
		return "", fmt.Errorf("service.StayService.RemoveMessage: %w", err)
	}

	s.publish(ctx, domain.StayEvent{Type: domain.StayMsgRemoved, StayID: stayID, MsgID: msgID})
	return msgID, nil
}

// observe runs one store call and records its duration and outcome.
func (s *StayService) observe(op string, call func() error) error {
	start := time.Now()
	err := call()
	metrics.RecordStoreOperation(op, err, time.Since(start).Seconds())
	return err
}

func (s *StayService) publish(ctx context.Context, evt domain.StayEvent) {
	err := s.events.Publish(ctx, evt)
	metrics.RecordEvent(string(evt.Type), err)
	if err != nil {
		s.log.WarnContext(ctx, "failed to publish stay event",
			"type", evt.Type,
			"stay_id", evt.StayID,
			"error", err,
		)
	}
}
