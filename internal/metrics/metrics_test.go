package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/landmarks", "200"))
	RecordAPIRequest("GET", "/api/v1/landmarks", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/landmarks", "200"))
	assert.Equal(t, before+1, after)
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, start+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, start, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordNotification(t *testing.T) {
	created := testutil.ToFloat64(NotificationsCreated.WithLabelValues("system"))
	failed := testutil.ToFloat64(NotificationFailures.WithLabelValues("system"))

	RecordNotification("system", nil)
	RecordNotification("system", errors.New("insert failed"))

	assert.Equal(t, created+1, testutil.ToFloat64(NotificationsCreated.WithLabelValues("system")))
	assert.Equal(t, failed+1, testutil.ToFloat64(NotificationFailures.WithLabelValues("system")))
}

func TestRecordDBQueryCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("query"))
	RecordDBQuery("query", time.Millisecond, nil)
	RecordDBQuery("query", time.Millisecond, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(DBQueryErrors.WithLabelValues("query")))
}

func TestRecordCityRecompute(t *testing.T) {
	RecordCityRecompute(time.Second, 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(CityProfiles))
}
