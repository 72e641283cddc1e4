package reminder

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/logger"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
)

type fakeRepo struct {
	ensureCalls int
	ensureErr   error

	reminders  []models.ServiceReminder
	services   map[uint]*models.Service
	admins     []uint
	serviceErr error

	sent map[uint]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{services: map[uint]*models.Service{}, sent: map[uint]bool{}}
}

func (f *fakeRepo) EnsureTables(context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeRepo) DueReminders(_ context.Context, now time.Time, limit int) ([]models.ServiceReminder, error) {
	var out []models.ServiceReminder
	for _, r := range f.reminders {
		if !f.sent[r.ID] && !r.ScheduledFor.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.services[id], nil
}

func (f *fakeRepo) ActiveAdminIDs(context.Context) ([]uint, error) {
	return f.admins, nil
}

func (f *fakeRepo) MarkSent(_ context.Context, id uint, _ time.Time) error {
	f.sent[id] = true
	return nil
}

type fakeNotifier struct {
	calls   [][]uint
	payload []notification.Payload
	err     error
}

func (f *fakeNotifier) NotifyUsers(_ context.Context, ids []uint, p notification.Payload) (notification.Result, error) {
	f.calls = append(f.calls, ids)
	f.payload = append(f.payload, p)
	return notification.Result{Sent: len(ids)}, f.err
}

type fakeMailer struct {
	to []string
}

func (f *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	f.to = append(f.to, to)
	return errors.New("smtp down")
}

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

func openService(id uint, technician *uint) *models.Service {
	return &models.Service{
		ID:            id,
		Status:        models.StatusScheduled,
		TechnicianID:  technician,
		ScheduledDate: ptr("2024-05-10"),
		ScheduledTime: ptr("13:00"),
		Customer:      &models.Customer{Name: "Ana", Email: "ana@example.com"},
		Vehicle:       &models.Vehicle{Plate: "ABC1234", Model: "Gol"},
		ServiceType:   &models.ServiceType{Name: "Troca de óleo"},
	}
}

func newTestPoller(repo *fakeRepo, n Notifier, m notification.Mailer) *Poller {
	p := NewPoller(repo, n, m, logger.Discard())
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPoll_DeliversDueRemindersToTechnicianAndAdmins(t *testing.T) {
	repo := newFakeRepo()
	repo.admins = []uint{1, 7}
	repo.services[10] = openService(10, ptr(uint(7)))
	repo.reminders = []models.ServiceReminder{
		{ID: 1, ServiceID: 10, ScheduledFor: fixedNow.Add(-time.Minute)},
		{ID: 2, ServiceID: 10, ScheduledFor: fixedNow.Add(time.Hour)},
	}
	n := &fakeNotifier{}
	m := &fakeMailer{}

	closed, err := newTestPoller(repo, n, m).Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.True(t, repo.sent[1])
	assert.False(t, repo.sent[2])

	require.Len(t, n.calls, 1)
	assert.Equal(t, []uint{7, 1}, n.calls[0])
	assert.Equal(t, "Lembrete: Troca de óleo", n.payload[0].Title)
	assert.Equal(t, "Ana (Gol ABC1234) - 10/05 às 13:00", n.payload[0].Body)
	assert.Equal(t, "/services/10", n.payload[0].URL)

	// a failing mailer does not keep the reminder pending
	assert.Equal(t, []string{"ana@example.com"}, m.to)
}

func TestPoll_ClosedOrMissingServiceIsMarkedWithoutDelivery(t *testing.T) {
	repo := newFakeRepo()
	done := openService(10, nil)
	done.Status = models.StatusCompleted
	repo.services[10] = done
	repo.reminders = []models.ServiceReminder{
		{ID: 1, ServiceID: 10, ScheduledFor: fixedNow},
		{ID: 2, ServiceID: 99, ScheduledFor: fixedNow},
	}
	n := &fakeNotifier{}

	closed, err := newTestPoller(repo, n, nil).Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, closed)
	assert.Empty(t, n.calls)
}

func TestPoll_LoadErrorsLeaveReminderPending(t *testing.T) {
	repo := newFakeRepo()
	repo.serviceErr = errors.New("connection reset")
	repo.reminders = []models.ServiceReminder{{ID: 1, ServiceID: 10, ScheduledFor: fixedNow}}

	closed, err := newTestPoller(repo, &fakeNotifier{}, nil).Poll(context.Background())

	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.False(t, repo.sent[1])
}

func TestPoll_EnsuresTablesOnce(t *testing.T) {
	repo := newFakeRepo()
	p := newTestPoller(repo, &fakeNotifier{}, nil)

	_, err := p.Poll(context.Background())
	require.NoError(t, err)
	_, err = p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.ensureCalls)
}

func TestPoll_EnsureTablesFailureIsRetried(t *testing.T) {
	repo := newFakeRepo()
	repo.ensureErr = errors.New("permission denied")
	p := newTestPoller(repo, &fakeNotifier{}, nil)

	_, err := p.Poll(context.Background())
	assert.Error(t, err)

	repo.ensureErr = nil
	_, err = p.Poll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, repo.ensureCalls)
}

// errorPushService makes every endpoint answer 500.
type errorPushService struct{ calls int }

func (e *errorPushService) Do(*http.Request) (*http.Response, error) {
	e.calls++
	return &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader("boom"))}, nil
}

type subStore struct{ subs []models.PushSubscription }

func (s *subStore) ListForUsers(context.Context, []uint) ([]models.PushSubscription, error) {
	return s.subs, nil
}
func (s *subStore) Delete(context.Context, uint) error { return nil }

func TestPoll_EndpointErrorStillMarksSent(t *testing.T) {
	priv, pub, err := notification.GenerateVAPIDKeys()
	require.NoError(t, err)
	push := &errorPushService{}
	sender, err := notification.NewWebPushSender(notification.VAPIDConfig{
		PublicKey: pub, PrivateKey: priv, Subject: "mailto:oficina@example.com",
	}, push)
	require.NoError(t, err)

	store := &subStore{subs: []models.PushSubscription{{
		ID:       1,
		UserID:   1,
		Endpoint: "https://push.example.com/abc",
		P256dh:   "BNNL5ZaTfK81qhXOx23-wewhigUeFb632jN6LvRWCFH1ubQr77FE_9qV1FuojuRmHP42zmf34rXgW80OvUVDgTk",
		Auth:     "zqbxT6JKstKSY9JKibZLSQ",
	}}}

	repo := newFakeRepo()
	repo.admins = []uint{1}
	repo.services[10] = openService(10, nil)
	repo.reminders = []models.ServiceReminder{{ID: 5, ServiceID: 10, ScheduledFor: fixedNow.Add(-time.Hour)}}

	notifier := notification.NewNotifier(sender, store, logger.Discard())
	closed, err := newTestPoller(repo, notifier, nil).Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, push.calls)
	assert.True(t, repo.sent[5])
}

func TestScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every minute please", NewPoller(newFakeRepo(), &fakeNotifier{}, nil, logger.Discard()), logger.Discard())
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("@every 1h", NewPoller(newFakeRepo(), &fakeNotifier{}, nil, logger.Discard()), logger.Discard())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestPoll_WithoutPushStillEmails(t *testing.T) {
	repo := newFakeRepo()
	repo.services[10] = openService(10, nil)
	repo.reminders = []models.ServiceReminder{
		{ID: 1, ServiceID: 10, ScheduledFor: fixedNow.Add(-time.Minute)},
	}
	m := &fakeMailer{}

	closed, err := newTestPoller(repo, nil, m).Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.True(t, repo.sent[1])
	assert.Equal(t, []string{"ana@example.com"}, m.to)
}
