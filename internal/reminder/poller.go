package reminder

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

const defaultBatch = 100

// Poller delivers due reminders. A reminder is marked sent once delivery
// was attempted, whatever each subscription answered, so running two
// polls over the same rows only repeats the attempt and never loses one.
type Poller struct {
	repo     Repository
	notifier Notifier
	mailer   notification.Mailer
	log      logrus.FieldLogger

	now   func() time.Time
	batch int

	tablesReady atomic.Bool
}

func NewPoller(
	repo Repository,
	notifier Notifier,
	mailer notification.Mailer,
	log logrus.FieldLogger,
) *Poller {
	if mailer == nil {
		mailer = notification.NopMailer{}
	}
	return &Poller{
		repo:     repo,
		notifier: notifier,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
		batch:    defaultBatch,
	}
}

// Poll runs one pass and returns how many reminders were closed.
func (p *Poller) Poll(ctx context.Context) (int, error) {

	// --------------------------------------------------
	// 1️⃣ Tables (first run on a fresh database)
	// --------------------------------------------------
	if !p.tablesReady.Load() {
		if err := p.repo.EnsureTables(ctx); err != nil {
			return 0, fmt.Errorf("ensure reminder tables: %w", err)
		}
		p.tablesReady.Store(true)
	}

	// --------------------------------------------------
	// 2️⃣ Due reminders
	// --------------------------------------------------
	now := p.now()
	due, err := p.repo.DueReminders(ctx, now, p.batch)
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}

	// --------------------------------------------------
	// 3️⃣ Deliver, one reminder at a time
	// --------------------------------------------------
	closed := 0
	for _, r := range due {
		if ctx.Err() != nil {
			break
		}

		entry := p.log.WithFields(logrus.Fields{
			"reminder_id": r.ID,
			"service_id":  r.ServiceID,
		})

		if err := p.deliver(ctx, r, entry); err != nil {
			entry.WithError(err).Warn("reminder delivery skipped, will retry")
			continue
		}

		if err := p.repo.MarkSent(ctx, r.ID, p.now()); err != nil {
			entry.WithError(err).Error("failed to mark reminder sent")
			continue
		}
		closed++
	}

	return closed, nil
}

// deliver returns an error only when nothing was attempted and the
// reminder should stay pending.
func (p *Poller) deliver(ctx context.Context, r models.ServiceReminder, entry logrus.FieldLogger) error {
	svc, err := p.repo.GetService(ctx, r.ServiceID)
	if err != nil {
		return fmt.Errorf("load service: %w", err)
	}
	if svc == nil || !svc.IsOpen() {
		entry.Debug("service closed or gone, reminder dropped")
		return nil
	}

	// push is optional; without it only the customer email goes out
	if p.notifier != nil {
		recipients, err := p.recipients(ctx, svc)
		if err != nil {
			return err
		}

		res, err := p.notifier.NotifyUsers(ctx, recipients, reminderPayload(svc))
		if err != nil {
			return fmt.Errorf("notify: %w", err)
		}

		entry.WithFields(logrus.Fields{
			"sent":    res.Sent,
			"failed":  res.Failed,
			"removed": res.Removed,
		}).Info("reminder delivered")
	}

	if svc.Customer != nil && svc.Customer.Email != "" {
		subject, body := reminderEmail(svc)
		if err := p.mailer.Send(ctx, svc.Customer.Email, subject, body); err != nil {
			entry.WithError(err).Warn("reminder email failed")
		}
	}

	return nil
}

// recipients is the assigned technician plus every active admin.
func (p *Poller) recipients(ctx context.Context, svc *models.Service) ([]uint, error) {
	admins, err := p.repo.ActiveAdminIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}

	seen := make(map[uint]bool)
	var out []uint

	if svc.TechnicianID != nil {
		seen[*svc.TechnicianID] = true
		out = append(out, *svc.TechnicianID)
	}
	for _, id := range admins {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func describe(svc *models.Service) (what, who, when string) {
	what = "Serviço"
	if svc.ServiceType != nil {
		what = svc.ServiceType.Name
	}
	if svc.Customer != nil {
		who = svc.Customer.Name
	}
	if svc.Vehicle != nil {
		who = fmt.Sprintf("%s (%s %s)", who, svc.Vehicle.Model, svc.Vehicle.Plate)
	}
	if svc.ScheduledDate != nil && svc.ScheduledTime != nil {
		if d, err := timezone.ParseDate(*svc.ScheduledDate); err == nil {
			when = fmt.Sprintf("%s às %s", d.Format("02/01"), *svc.ScheduledTime)
		}
	}
	return what, who, when
}

func reminderPayload(svc *models.Service) notification.Payload {
	what, who, when := describe(svc)
	return notification.NewPayload(
		"Lembrete: "+what,
		fmt.Sprintf("%s - %s", who, when),
		fmt.Sprintf("/services/%d", svc.ID),
		fmt.Sprintf("service-reminder-%d", svc.ID),
	)
}

func reminderEmail(svc *models.Service) (string, string) {
	what, _, when := describe(svc)
	plate := ""
	if svc.Vehicle != nil {
		plate = svc.Vehicle.Plate
	}

	subject := fmt.Sprintf("Lembrete: %s %s", what, when)
	body := fmt.Sprintf(`
		<p>Olá, %s!</p>
		<p>Lembramos que o serviço <strong>%s</strong> do veículo <strong>%s</strong> está agendado para <strong>%s</strong>.</p>
		<p>Em caso de imprevisto, entre em contato para reagendar.</p>
	`, svc.Customer.Name, what, plate, when)

	return subject, body
}
