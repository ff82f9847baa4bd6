package postgres

import (
	"context"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Publisher sends lifecycle messages once a write has committed.
type Publisher interface {
	Publish(eventName string, data interface{}) error
}

// EventService is the event store. Reads are open to every caller; writes
// require a user in the context and are limited to the event's owner.
type EventService struct {
	DB        *DB
	Publisher Publisher
	Validator *validator.Validate
	Logger    *zap.Logger
}

var _ scheduler.EventService = (*EventService)(nil)

const eventColumns = `
	id, title, to_char(event_date, 'YYYY-MM-DD'), start_time, end_time, status,
	location, description, facilitator, created_by,
	COALESCE(to_char(original_date, 'YYYY-MM-DD'), ''), postponed_reason,
	created_at, updated_at
`

func (s *EventService) ListEvents(ctx context.Context) ([]*scheduler.Event, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	return queryEvents(ctx, tx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY event_date, start_time
	`)
}

func (s *EventService) FindEventByID(ctx context.Context, id string) (*scheduler.Event, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	return findEventByID(ctx, tx, id, false)
}

// FindScheduledEventsByDate returns the events the conflict checker compares
// against.
func (s *EventService) FindScheduledEventsByDate(ctx context.Context, date string) ([]*scheduler.Event, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	return queryEvents(ctx, tx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE event_date = $1::text::date AND status = $2
		ORDER BY start_time, created_at
	`, date, string(scheduler.StatusScheduled))
}

// FindEventsBetween returns every event dated from..to inclusive.
func (s *EventService) FindEventsBetween(ctx context.Context, from, to string) ([]*scheduler.Event, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	return queryEvents(ctx, tx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE event_date BETWEEN $1::text::date AND $2::text::date
		ORDER BY event_date, start_time
	`, from, to)
}

func (s *EventService) CreateEvent(ctx context.Context, event *scheduler.Event) error {
	user := scheduler.UserFromContext(ctx)
	if user == nil {
		return errors.Wrap(scheduler.ErrUnauthorized, "you must be logged in to create events")
	}

	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	event.Normalize()
	event.ID = uuid.NewString()
	event.CreatedBy = user.ID
	event.CreatedAt = tx.now
	event.UpdatedAt = tx.now

	if err := s.validate(event); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
			INSERT INTO events (
				id, title, event_date, start_time, end_time, status,
				location, description, facilitator, created_by,
				original_date, postponed_reason, created_at, updated_at
			)
			VALUES ($1, $2, $3::text::date, $4, $5, $6, $7, $8, $9, $10, NULLIF($11::text, '')::date, $12, $13, $14)
		`,
		event.ID,
		event.Title,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		string(event.Status),
		event.Location,
		event.Description,
		event.Facilitator,
		event.CreatedBy,
		event.OriginalDate,
		event.PostponedReason,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publish(scheduler.EventCreated, &scheduler.EventMessage{Event: event})

	return nil
}

// UpdateEvent applies upd to the event. Concurrent updates are last write
// wins.
func (s *EventService) UpdateEvent(ctx context.Context, id string, upd scheduler.EventUpdate) (*scheduler.Event, error) {
	user := scheduler.UserFromContext(ctx)
	if user == nil {
		return nil, errors.Wrap(scheduler.ErrUnauthorized, "you must be logged in to update events")
	}

	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := findEventByID(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != user.ID {
		return nil, errors.Wrap(scheduler.ErrForbidden, "you can only modify events you created")
	}

	previousDate := event.EventDate

	upd.Apply(event)
	event.Normalize()
	event.UpdatedAt = tx.now

	if err := s.validate(event); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
			UPDATE events
			SET title = $3, event_date = $4::text::date, start_time = $5, end_time = $6, status = $7,
				location = $8, description = $9, facilitator = $10,
				original_date = NULLIF($11::text, '')::date, postponed_reason = $12, updated_at = $13
			WHERE id = $1 AND created_by = $2
		`,
		event.ID,
		user.ID,
		event.Title,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		string(event.Status),
		event.Location,
		event.Description,
		event.Facilitator,
		event.OriginalDate,
		event.PostponedReason,
		event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publish(scheduler.EventUpdated, &scheduler.EventMessage{Event: event, PreviousDate: previousDate})

	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	user := scheduler.UserFromContext(ctx)
	if user == nil {
		return errors.Wrap(scheduler.ErrUnauthorized, "you must be logged in to delete events")
	}

	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	event, err := findEventByID(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if event.CreatedBy != user.ID {
		return errors.Wrap(scheduler.ErrForbidden, "you can only delete events you created")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1 AND created_by = $2`, id, user.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publish(scheduler.EventDeleted, &scheduler.EventMessage{Event: event})

	return nil
}

// IsEventOwner reports whether the user in ctx created the event. Any
// failure, including a missing event, reads as false.
func (s *EventService) IsEventOwner(ctx context.Context, id string) bool {
	userID := scheduler.UserIDFromContext(ctx)
	if userID == "" {
		return false
	}

	var createdBy string
	err := s.DB.db.QueryRow(ctx, `SELECT created_by FROM events WHERE id = $1`, id).Scan(&createdBy)
	if err != nil {
		return false
	}
	return createdBy == userID
}

func (s *EventService) validate(event *scheduler.Event) error {
	if err := s.Validator.Struct(event); err != nil {
		return errors.Wrap(scheduler.ErrValidation, err.Error())
	}
	return event.Validate()
}

func (s *EventService) publish(eventName string, msg *scheduler.EventMessage) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(eventName, msg); err != nil {
		s.logger().Error("error publishing event message",
			zap.String("eventName", eventName),
			zap.String("eventId", msg.Event.ID),
			zap.Error(err),
		)
	}
}

func (s *EventService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func findEventByID(ctx context.Context, tx *Tx, id string, forUpdate bool) (*scheduler.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	event, err := scanEvent(tx.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.Wrapf(scheduler.ErrNotFound, "event %s", id)
	} else if err != nil {
		return nil, err
	}
	return event, nil
}

func queryEvents(ctx context.Context, tx *Tx, query string, args ...interface{}) ([]*scheduler.Event, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*scheduler.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*scheduler.Event, error) {
	event := &scheduler.Event{}
	var status string

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.EventDate,
		&event.StartTime,
		&event.EndTime,
		&status,
		&event.Location,
		&event.Description,
		&event.Facilitator,
		&event.CreatedBy,
		&event.OriginalDate,
		&event.PostponedReason,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Status = scheduler.Status(status)
	return event, nil
}
