package mock

//go:generate mockgen -destination=event_service.go -package=mock github.com/alexdunne/not-so-smart-cal/scheduler EventService
//go:generate mockgen -destination=stores.go -package=mock github.com/alexdunne/not-so-smart-cal/scheduler UserService,SessionStore,ConflictStore
