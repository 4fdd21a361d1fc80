package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics()
	mfs, err := Registry.Gather()
	require.NoError(t, err)
	assert.NotNil(t, mfs)
}

func TestObserveVectorRequest(t *testing.T) {
	InitMetrics()
	before := testutil.ToFloat64(VectorRequestsTotal.WithLabelValues("upsert", "error"))
	ObserveVectorRequest("upsert", time.Now(), errors.New("boom"))
	after := testutil.ToFloat64(VectorRequestsTotal.WithLabelValues("upsert", "error"))
	assert.Equal(t, before+1, after)
}

func TestFailStage(t *testing.T) {
	InitMetrics()
	before := testutil.ToFloat64(StageFailuresTotal.WithLabelValues("provision", "recovered"))
	FailStage("provision", "recovered")
	assert.Equal(t, before+1, testutil.ToFloat64(StageFailuresTotal.WithLabelValues("provision", "recovered")))
}

func TestPushMetrics(t *testing.T) {
	InitMetrics()
	MarkRunFinished(true)

	var gotPath, gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	require.NoError(t, PushMetrics(context.Background(), ts.URL, "profrag"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.True(t, strings.HasSuffix(gotPath, "/metrics/job/profrag"), gotPath)
}

func TestPushMetrics_EmptyURLNoop(t *testing.T) {
	require.NoError(t, PushMetrics(context.Background(), "", "profrag"))
}

func TestPushMetrics_GatewayError(t *testing.T) {
	InitMetrics()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	err := PushMetrics(context.Background(), ts.URL, "profrag")
	require.Error(t, err)
}
