package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/conflict"
	"github.com/alexdunne/not-so-smart-cal/scheduler/grid"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, displayName string) (string, *scheduler.User, error)
	SignIn(ctx context.Context, email, password string) (string, *scheduler.User, error)
	SignInAdmin(ctx context.Context, email, password string) (string, *scheduler.User, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*scheduler.User, error)
}

type Server struct {
	eventService  scheduler.EventService
	conflictStore scheduler.ConflictStore
	checker       *conflict.Checker
	authService   AuthService
	grid          *grid.Builder
	location      *time.Location
	logger        *zap.Logger

	// now returns the current time; "today" is its date in location.
	now func() time.Time
}

func NewServer(
	eventService scheduler.EventService,
	conflictStore scheduler.ConflictStore,
	authService AuthService,
	location *time.Location,
	logger *zap.Logger,
) *Server {
	return &Server{
		eventService:  eventService,
		conflictStore: conflictStore,
		checker:       conflict.NewChecker(eventService, logger),
		authService:   authService,
		grid:          grid.NewBuilder(location),
		location:      location,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.health)

	a := r.Group("/auth")
	a.POST("/signup", s.signUp)
	a.POST("/signin", s.signIn)
	a.POST("/admin/signin", s.adminSignIn)
	a.POST("/signout", s.authenticate, s.signOut)
	a.GET("/me", s.authenticate, s.me)

	api := r.Group("/", s.authenticate)

	api.GET("/events", s.listEvents)
	api.POST("/events", s.createEvent)
	api.GET("/events/:id", s.findEvent)
	api.PATCH("/events/:id", s.updateEvent)
	api.DELETE("/events/:id", s.deleteEvent)
	api.GET("/events/:id/conflicts", s.eventConflicts)

	api.POST("/conflicts/check", s.checkConflicts)

	api.GET("/calendar/month", s.monthView)
	api.GET("/calendar/week", s.weekView)
	api.GET("/calendar.ics", s.icsFeed)

	api.GET("/dashboard", s.dashboard)

	admin := api.Group("/admin", s.requireAdmin)
	admin.GET("/dashboard", s.adminDashboard)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) today() time.Time {
	return s.now().In(s.location)
}

// ErrorResponse writes err with the status its kind maps to. Unexpected
// errors are logged and hidden from the client.
func (s *Server) ErrorResponse(c *gin.Context, err error) {
	status := errorStatus(err)

	if status == http.StatusInternalServerError {
		s.logger.Error("error response",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, scheduler.ErrInvalidFormat),
		errors.Is(err, scheduler.ErrInvalidRange),
		errors.Is(err, scheduler.ErrInvalidDate),
		errors.Is(err, scheduler.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, scheduler.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, scheduler.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, scheduler.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduler.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, scheduler.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// bindError reports a request body that failed gin binding.
func (s *Server) bindError(c *gin.Context, err error) {
	s.ErrorResponse(c, errors.Wrap(scheduler.ErrValidation, err.Error()))
}

// authenticate resolves the bearer token and stores the user in the request
// context.
func (s *Server) authenticate(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		s.ErrorResponse(c, errors.Wrap(scheduler.ErrUnauthorized, "missing bearer token"))
		c.Abort()
		return
	}

	user, err := s.authService.Authenticate(c.Request.Context(), token)
	if err != nil {
		s.ErrorResponse(c, err)
		c.Abort()
		return
	}

	c.Set(tokenKey, token)
	c.Request = c.Request.WithContext(scheduler.NewContextWithUser(c.Request.Context(), user))
	c.Next()
}

func (s *Server) requireAdmin(c *gin.Context) {
	if !scheduler.UserFromContext(c.Request.Context()).IsAdmin() {
		s.ErrorResponse(c, errors.Wrap(scheduler.ErrForbidden, "admin privileges required"))
		c.Abort()
		return
	}
	c.Next()
}

const tokenKey = "sessionToken"

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
