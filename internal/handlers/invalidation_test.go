package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type brokenCache struct{ cache.Nop }

func (brokenCache) Invalidate(context.Context, string) error {
	return errors.New("redis: connection refused")
}

type eventSink struct{ events []audit.Event }

func (s *eventSink) Dispatch(ev audit.Event) { s.events = append(s.events, ev) }

func TestChanged_LogsFailedInvalidation(t *testing.T) {
	newCtx := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("PUT", "/", nil)
		return c
	}

	t.Run("vehicle", func(t *testing.T) {
		log, hook := logtest.NewNullLogger()
		sink := &eventSink{}
		h := NewVehicleHandler(nil, sink, brokenCache{}, nil, log)

		h.changed(newCtx(), 1, "vehicle_updated", &models.Vehicle{ID: 4, Plate: "ABC1D23"})

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, uint(4), entry.Data["vehicle_id"])
		assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "redis: connection refused")
		// the audit event still goes out
		require.Len(t, sink.events, 1)
		assert.Equal(t, "vehicle_updated", sink.events[0].Action)
	})

	t.Run("customer", func(t *testing.T) {
		log, hook := logtest.NewNullLogger()
		sink := &eventSink{}
		h := NewCustomerHandler(nil, sink, brokenCache{}, log)

		h.changed(newCtx(), 1, "customer_deleted", &models.Customer{ID: 9, Name: "Ana"})

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, uint(9), entry.Data["customer_id"])
		require.Len(t, sink.events, 1)
	})

	t.Run("healthy cache stays quiet", func(t *testing.T) {
		log, hook := logtest.NewNullLogger()
		h := NewCustomerHandler(nil, audit.Nop{}, cache.Nop{}, log)

		h.changed(newCtx(), 1, "customer_updated", &models.Customer{ID: 9})

		assert.Empty(t, hook.AllEntries())
	})
}
