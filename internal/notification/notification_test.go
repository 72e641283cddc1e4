package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/logger"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// stubPushService answers each endpoint with a fixed status code.
type stubPushService struct {
	mu       sync.Mutex
	statuses map[string]int
	requests []*http.Request
}

func (s *stubPushService) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	code, ok := s.statuses[req.URL.String()]
	if !ok {
		code = http.StatusCreated
	}
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func testSubscription(id uint, endpoint string) models.PushSubscription {
	return models.PushSubscription{
		ID:       id,
		UserID:   1,
		Endpoint: endpoint,
		P256dh:   "BNNL5ZaTfK81qhXOx23-wewhigUeFb632jN6LvRWCFH1ubQr77FE_9qV1FuojuRmHP42zmf34rXgW80OvUVDgTk",
		Auth:     "zqbxT6JKstKSY9JKibZLSQ",
	}
}

func newTestSender(t *testing.T, client *stubPushService) *WebPushSender {
	t.Helper()
	priv, pub, err := GenerateVAPIDKeys()
	require.NoError(t, err)

	s, err := NewWebPushSender(VAPIDConfig{
		PublicKey:  pub,
		PrivateKey: priv,
		Subject:    "mailto:oficina@example.com",
	}, client)
	require.NoError(t, err)
	return s
}

func TestNewWebPushSender_RequiresKeys(t *testing.T) {
	_, err := NewWebPushSender(VAPIDConfig{}, nil)
	assert.ErrorIs(t, err, ErrPushDisabled)
}

func TestWebPushSender_Send(t *testing.T) {
	stub := &stubPushService{statuses: map[string]int{
		"https://push.example.com/gone":    http.StatusGone,
		"https://push.example.com/missing": http.StatusNotFound,
		"https://push.example.com/broken":  http.StatusInternalServerError,
	}}
	s := newTestSender(t, stub)
	ctx := context.Background()
	p := NewPayload("Lembrete", "Troca de óleo às 14:00", "/services/1", "service-1")

	require.NoError(t, s.Send(ctx, testSubscription(1, "https://push.example.com/ok"), p))
	req := stub.requests[0]
	assert.Equal(t, "high", req.Header.Get("Urgency"))
	assert.Equal(t, "3600", req.Header.Get("TTL"))
	assert.True(t, strings.HasPrefix(req.Header.Get("Authorization"), "vapid t="))

	err := s.Send(ctx, testSubscription(2, "https://push.example.com/gone"), p)
	assert.True(t, IsGone(err))

	err = s.Send(ctx, testSubscription(3, "https://push.example.com/missing"), p)
	assert.True(t, IsGone(err))

	err = s.Send(ctx, testSubscription(4, "https://push.example.com/broken"), p)
	require.Error(t, err)
	assert.False(t, IsGone(err))
	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusInternalServerError, de.StatusCode)
}

func TestPayloadJSON(t *testing.T) {
	b, err := json.Marshal(NewPayload("t", "b", "/x", "tag"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	actions := got["actions"].([]any)
	require.Len(t, actions, 2)
	assert.Equal(t, "view", actions[0].(map[string]any)["action"])
	assert.Equal(t, "dismiss", actions[1].(map[string]any)["action"])
}

type memoryStore struct {
	subs    []models.PushSubscription
	deleted []uint
	listErr error
}

func (m *memoryStore) ListForUsers(_ context.Context, userIDs []uint) ([]models.PushSubscription, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	want := map[uint]bool{}
	for _, id := range userIDs {
		want[id] = true
	}
	var out []models.PushSubscription
	for _, s := range m.subs {
		if want[s.UserID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestNotifier_PartitionsFailures(t *testing.T) {
	stub := &stubPushService{statuses: map[string]int{
		"https://push.example.com/gone":   http.StatusGone,
		"https://push.example.com/broken": http.StatusBadGateway,
	}}
	store := &memoryStore{subs: []models.PushSubscription{
		testSubscription(1, "https://push.example.com/gone"),
		testSubscription(2, "https://push.example.com/broken"),
		testSubscription(3, "https://push.example.com/ok"),
	}}
	other := testSubscription(4, "https://push.example.com/other-user")
	other.UserID = 2
	store.subs = append(store.subs, other)

	n := NewNotifier(newTestSender(t, stub), store, logger.Discard())
	res, err := n.NotifyUsers(context.Background(), []uint{1}, NewPayload("a", "b", "", ""))

	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 1, Failed: 1, Removed: 1}, res)
	assert.Equal(t, []uint{1}, store.deleted)
	assert.Len(t, stub.requests, 3)
}

func TestNotifier_StoreError(t *testing.T) {
	store := &memoryStore{listErr: errors.New("db down")}
	n := NewNotifier(newTestSender(t, &stubPushService{}), store, logger.Discard())

	_, err := n.NotifyUsers(context.Background(), []uint{1}, Payload{})
	assert.Error(t, err)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "oficina@example.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, "cliente@example.com", "s", "b"), context.Canceled)
}
