package scheduler

import "context"

// EventService is the event store gateway. Every authenticated user can read
// every event; writes are restricted to the event's owner, taken from the
// user in ctx.
type EventService interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	FindEventByID(ctx context.Context, id string) (*Event, error)
	FindScheduledEventsByDate(ctx context.Context, date string) ([]*Event, error)
	FindEventsBetween(ctx context.Context, from, to string) ([]*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	IsEventOwner(ctx context.Context, id string) bool
}

// UserService stores accounts. Password hashes never leave the auth layer.
type UserService interface {
	CreateUser(ctx context.Context, user *User, passwordHash string) error
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, string, error)
	SetUserRole(ctx context.Context, email string, role Role) error
}

// SessionStore maps opaque session tokens to user ids.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// ConflictStore keeps the audited conflicts of each event.
type ConflictStore interface {
	SetConflicts(ctx context.Context, eventID string, conflictIDs []string) error
	GetConflicts(ctx context.Context, eventID string) ([]string, error)
	ClearConflicts(ctx context.Context, eventIDs ...string) error
}
