package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/audit"
	"github.com/alexdunne/not-so-smart-cal/scheduler/auth"
	"github.com/alexdunne/not-so-smart-cal/scheduler/conflict"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/alexdunne/not-so-smart-cal/scheduler/grid"
	"github.com/alexdunne/not-so-smart-cal/scheduler/postgres"
	schedRedis "github.com/alexdunne/not-so-smart-cal/scheduler/redis"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/urfave/cli/v2"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and print the schema version.",
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			version, err := e.db.Version(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "schema version %d\n", version)
			return nil
		},
	}
}

func promoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "promote",
		Usage: "Grant a user admin privileges.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.BoolFlag{Name: "revoke", Usage: "demote the user back to a regular user"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			role := scheduler.RoleAdmin
			if c.Bool("revoke") {
				role = scheduler.RoleUser
			}

			users := &postgres.UserService{DB: e.db}
			if err := users.SetUserRole(c.Context, c.String("email"), role); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s is now %s\n", c.String("email"), role)
			return nil
		},
	}
}

var dateFlag = &cli.StringFlag{Name: "date", Usage: "reference date as YYYY-MM-DD, defaults to today"}

func referenceDate(c *cli.Context, loc *time.Location) (time.Time, error) {
	if value := c.String("date"); value != "" {
		return dateutil.ParseDateIn(value, loc)
	}
	return dateutil.StartOfDay(time.Now().In(loc)), nil
}

func monthCommand() *cli.Command {
	return &cli.Command{
		Name:  "month",
		Usage: "Print the month grid with scheduled and postponed events.",
		Flags: []cli.Flag{dateFlag},
		Action: func(c *cli.Context) error {
			return gridAction(c, func(b *grid.Builder, ref time.Time, events []*scheduler.Event) error {
				cells, err := b.Month(ref, events)
				if err != nil {
					return err
				}
				renderGrid(c.App.Writer, ref.Format("January 2006"), cells)
				renderAgenda(c.App.Writer, cells)
				return nil
			}, (*grid.Builder).MonthRange)
		},
	}
}

func weekCommand() *cli.Command {
	return &cli.Command{
		Name:  "week",
		Usage: "Print the week containing --date with its events.",
		Flags: []cli.Flag{dateFlag},
		Action: func(c *cli.Context) error {
			return gridAction(c, func(b *grid.Builder, ref time.Time, events []*scheduler.Event) error {
				cells, err := b.Week(ref, events)
				if err != nil {
					return err
				}
				renderGrid(c.App.Writer, dateutil.FormatWeekRange(ref), cells)
				renderAgenda(c.App.Writer, cells)
				return nil
			}, (*grid.Builder).WeekRange)
		},
	}
}

func gridAction(
	c *cli.Context,
	render func(b *grid.Builder, ref time.Time, events []*scheduler.Event) error,
	span func(b *grid.Builder, ref time.Time) (time.Time, time.Time, error),
) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	ref, err := referenceDate(c, loc)
	if err != nil {
		return err
	}

	b := grid.NewBuilder(loc)
	from, to, err := span(b, ref)
	if err != nil {
		return err
	}

	events, err := e.events().FindEventsBetween(c.Context, dateutil.FormatDate(from), dateutil.FormatDate(to))
	if err != nil {
		return err
	}

	return render(b, ref, scheduler.FilterEvents(events, scheduler.StatusScheduled, scheduler.StatusPostponed))
}

var intervalFlags = []cli.Flag{
	&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
	&cli.StringFlag{Name: "start", Required: true, Usage: "HH:MM"},
	&cli.StringFlag{Name: "end", Required: true, Usage: "HH:MM"},
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Report the scheduled events an interval would overlap.",
		Flags: append(intervalFlags[:len(intervalFlags):len(intervalFlags)],
			&cli.StringFlag{Name: "exclude", Usage: "id of the event being edited"},
		),
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			report := conflict.NewChecker(e.events(), e.log).Check(c.Context, conflict.Candidate{
				Date:           c.String("date"),
				StartTime:      c.String("start"),
				EndTime:        c.String("end"),
				ExcludeEventID: c.String("exclude"),
			})
			if report.Err != nil {
				return report.Err
			}

			renderReport(c.App.Writer, report)
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Sign in and create a scheduled event, warning about conflicts.",
		Flags: append(intervalFlags[:len(intervalFlags):len(intervalFlags)],
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "location"},
			&cli.StringFlag{Name: "email", Required: true, EnvVars: []string{"SCHEDCTL_EMAIL"}},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SCHEDCTL_PASSWORD"}},
		),
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			redisClient := redis.NewClient(&redis.Options{
				Addr:     e.cfg.Redis.Addr(),
				Password: e.cfg.Redis.Password,
				DB:       e.cfg.Redis.DB,
			})
			defer redisClient.Close()

			session := auth.NewSession(auth.NewService(
				&postgres.UserService{DB: e.db},
				schedRedis.NewSessionStore(redisClient, e.cfg.SessionTTL),
				e.log,
			))
			unsubscribe := session.Subscribe(func(event auth.AuthEvent, user *scheduler.User) {
				if user != nil {
					fmt.Fprintf(os.Stderr, "%s as %s\n", event, user.Email)
				}
			})
			defer unsubscribe()

			if _, err := session.SignIn(c.Context, c.String("email"), c.String("password")); err != nil {
				return err
			}
			defer session.SignOut(c.Context)

			ctx := session.Context(c.Context)
			events := e.events()
			events.Validator = validator.New()

			event := &scheduler.Event{
				Title:     c.String("title"),
				EventDate: c.String("date"),
				StartTime: c.String("start"),
				EndTime:   c.String("end"),
				Location:  c.String("location"),
				Status:    scheduler.StatusScheduled,
			}

			report := conflict.NewChecker(events, e.log).Check(ctx, conflict.Candidate{
				Date:      event.EventDate,
				StartTime: event.StartTime,
				EndTime:   event.EndTime,
			})

			if err := events.CreateEvent(ctx, event); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "created %s\n", event.ID)
			renderReport(c.App.Writer, report)
			return nil
		},
	}
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Recompute the recorded conflicts for the coming days.",
		Flags: []cli.Flag{
			dateFlag,
			&cli.IntFlag{Name: "days", Usage: "how many days to audit, defaults to the configured horizon"},
			&cli.IntFlag{Name: "workers", Usage: "how many dates to audit at once"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			loc, err := e.cfg.Location()
			if err != nil {
				return err
			}
			from, err := referenceDate(c, loc)
			if err != nil {
				return err
			}

			days, workers := e.cfg.Audit.HorizonDays, e.cfg.Audit.Workers
			if c.IsSet("days") {
				days = c.Int("days")
			}
			if c.IsSet("workers") {
				workers = c.Int("workers")
			}

			redisClient := redis.NewClient(&redis.Options{
				Addr:     e.cfg.Redis.Addr(),
				Password: e.cfg.Redis.Password,
				DB:       e.cfg.Redis.DB,
			})
			defer redisClient.Close()

			auditor := &audit.Auditor{
				Events: e.events(),
				Store:  schedRedis.NewConflictStore(redisClient),
				Logger: e.log,
			}

			summary, err := auditor.AuditRange(c.Context, from, days, workers)
			if err != nil {
				return err
			}
			renderSummary(c.App.Writer, summary)
			return nil
		},
	}
}
