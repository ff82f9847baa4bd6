package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/conflict"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type CreateEventInput struct {
	Title           string `json:"title" binding:"required"`
	EventDate       string `json:"eventDate" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	EndTime         string `json:"endTime" binding:"required"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	Facilitator     string `json:"facilitator"`
	Status          string `json:"status"`
	PostponedReason string `json:"postponedReason"`
	OriginalDate    string `json:"originalDate"`
}

// UpdateEventInput is a partial update; absent fields are left alone.
// PostponedReason and OriginalDate are only read together with Status.
type UpdateEventInput struct {
	Title           *string `json:"title"`
	EventDate       *string `json:"eventDate"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	Location        *string `json:"location"`
	Description     *string `json:"description"`
	Facilitator     *string `json:"facilitator"`
	Status          *string `json:"status"`
	PostponedReason string  `json:"postponedReason"`
	OriginalDate    string  `json:"originalDate"`
}

type CheckConflictsInput struct {
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"startTime" binding:"required"`
	EndTime        string `json:"endTime" binding:"required"`
	ExcludeEventID string `json:"excludeEventId"`
}

func (in UpdateEventInput) toUpdate() (scheduler.EventUpdate, error) {
	upd := scheduler.EventUpdate{
		Title:       in.Title,
		EventDate:   in.EventDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Location:    in.Location,
		Description: in.Description,
		Facilitator: in.Facilitator,
	}

	if in.Status != nil {
		change, err := statusChange(*in.Status, in.PostponedReason, in.OriginalDate)
		if err != nil {
			return upd, err
		}
		upd.Status = change
	}

	return upd, nil
}

func statusChange(status, reason, originalDate string) (scheduler.StatusChange, error) {
	if status == "" {
		return scheduler.Scheduled{}, nil
	}

	st, err := scheduler.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return scheduler.NewStatusChange(st, strings.TrimSpace(reason), originalDate)
}

// checkFor runs the advisory conflict check for the state e is about to be
// written in. Only scheduled events take part in conflicts.
func (s *Server) checkFor(ctx context.Context, e *scheduler.Event, excludeID string) conflict.Report {
	if e.Status != scheduler.StatusScheduled {
		return conflict.Report{Conflicts: []*scheduler.Event{}}
	}

	return s.checker.Check(ctx, conflict.Candidate{
		Date:           e.EventDate,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		ExcludeEventID: excludeID,
	})
}

func (s *Server) listEvents(c *gin.Context) {
	ctx := c.Request.Context()

	statuses, err := parseStatuses(c.Query("status"), scheduler.StatusScheduled, scheduler.StatusPostponed, scheduler.StatusCancelled)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	var events []*scheduler.Event
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		if from, err = dateutil.NormalizeDate(from); err != nil {
			s.ErrorResponse(c, err)
			return
		}
		if to, err = dateutil.NormalizeDate(to); err != nil {
			s.ErrorResponse(c, err)
			return
		}
		events, err = s.eventService.FindEventsBetween(ctx, from, to)
	} else {
		events, err = s.eventService.ListEvents(ctx)
	}
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"events": scheduler.FilterEvents(events, statuses...),
	}})
}

func (s *Server) findEvent(c *gin.Context) {
	ctx := c.Request.Context()
	eventID := c.Param("id")

	event, err := s.eventService.FindEventByID(ctx, eventID)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"event":       event,
		"isOwner":     s.eventService.IsEventOwner(ctx, eventID),
		"conflictIds": s.auditedConflicts(ctx, eventID),
	}})
}

func (s *Server) createEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var input CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.bindError(c, err)
		return
	}

	change, err := statusChange(input.Status, input.PostponedReason, input.OriginalDate)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	event := &scheduler.Event{
		Title:       input.Title,
		EventDate:   input.EventDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Description: input.Description,
		Facilitator: input.Facilitator,
	}
	scheduler.EventUpdate{Status: change}.Apply(event)

	report := s.checkFor(ctx, event, "")

	if err := s.eventService.CreateEvent(ctx, event); err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"event":     event,
		"conflicts": report.Conflicts,
		"warning":   report.Warning(),
	}})
}

func (s *Server) updateEvent(c *gin.Context) {
	ctx := c.Request.Context()
	eventID := c.Param("id")

	var input UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.bindError(c, err)
		return
	}

	upd, err := input.toUpdate()
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	current, err := s.eventService.FindEventByID(ctx, eventID)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	preview := *current
	upd.Apply(&preview)
	preview.Normalize()
	report := s.checkFor(ctx, &preview, eventID)

	event, err := s.eventService.UpdateEvent(ctx, eventID, upd)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"event":     event,
		"conflicts": report.Conflicts,
		"warning":   report.Warning(),
	}})
}

func (s *Server) deleteEvent(c *gin.Context) {
	if err := s.eventService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// eventConflicts returns the conflicts the background audit last recorded
// for the event.
func (s *Server) eventConflicts(c *gin.Context) {
	ctx := c.Request.Context()
	eventID := c.Param("id")

	if _, err := s.eventService.FindEventByID(ctx, eventID); err != nil {
		s.ErrorResponse(c, err)
		return
	}

	conflicts := make([]*scheduler.Event, 0)
	for _, id := range s.auditedConflicts(ctx, eventID) {
		event, err := s.eventService.FindEventByID(ctx, id)
		if errors.Is(err, scheduler.ErrNotFound) {
			continue
		} else if err != nil {
			s.ErrorResponse(c, err)
			return
		}
		conflicts = append(conflicts, event)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"eventId":   eventID,
		"conflicts": conflicts,
	}})
}

// auditedConflicts reads the recorded conflict ids. The record is a badge,
// so a failed read is logged and shown as no conflicts.
func (s *Server) auditedConflicts(ctx context.Context, eventID string) []string {
	ids, err := s.conflictStore.GetConflicts(ctx, eventID)
	if errors.Is(err, scheduler.ErrNotFound) {
		return []string{}
	} else if err != nil {
		s.logger.Warn("error reading audited conflicts", zap.String("eventId", eventID), zap.Error(err))
		return []string{}
	}
	return ids
}

func (s *Server) checkConflicts(c *gin.Context) {
	var input CheckConflictsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.bindError(c, err)
		return
	}

	report := s.checker.Check(c.Request.Context(), conflict.Candidate{
		Date:           input.Date,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		ExcludeEventID: input.ExcludeEventID,
	})
	if report.Err != nil && !errors.Is(report.Err, scheduler.ErrUpstreamUnavailable) {
		s.ErrorResponse(c, report.Err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"hasConflicts": report.HasConflicts,
		"conflicts":    report.Conflicts,
		"warning":      report.Warning(),
	}})
}

// parseStatuses reads a comma separated status filter, falling back to
// defaults when it is empty.
func parseStatuses(value string, defaults ...scheduler.Status) ([]scheduler.Status, error) {
	if strings.TrimSpace(value) == "" {
		return defaults, nil
	}

	out := make([]scheduler.Status, 0)
	for _, part := range strings.Split(value, ",") {
		st, err := scheduler.ParseStatus(part)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
