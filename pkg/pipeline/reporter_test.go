package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/service/codepipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.smartmachine.io/awsci-invalidation/pkg/awstest"
	"go.smartmachine.io/awsci-invalidation/pkg/util"
	"go.uber.org/zap"
)

type call struct {
	Target string
	Body   map[string]interface{}
}

type fakeCodePipeline struct {
	mu     sync.Mutex
	calls  []call
	status int
	body   string
}

func (f *fakeCodePipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]interface{}{}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, call{Target: r.Header.Get("X-Amz-Target"), Body: body})
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.WriteHeader(status)
	if f.body == "" {
		_, _ = io.WriteString(w, "{}")
		return
	}
	_, _ = io.WriteString(w, f.body)
}

func newReporter(t *testing.T, fake *fakeCodePipeline) *Reporter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return New(codepipeline.New(awstest.NewSession(t, srv.URL)), zap.NewNop().Sugar())
}

func TestReportSuccess(t *testing.T) {
	fake := &fakeCodePipeline{}
	r := newReporter(t, fake)

	err := r.ReportSuccess(context.Background(), "job-123", "invalidation I2J0 created", "I2J0")
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	c := fake.calls[0]
	assert.True(t, strings.HasSuffix(c.Target, ".PutJobSuccessResult"), c.Target)
	assert.Equal(t, "job-123", c.Body["jobId"])

	details, ok := c.Body["executionDetails"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "invalidation I2J0 created", details["summary"])
	assert.Equal(t, "I2J0", details["externalExecutionId"])
}

func TestReportSuccess_WithoutDetails(t *testing.T) {
	fake := &fakeCodePipeline{}
	r := newReporter(t, fake)

	require.NoError(t, r.ReportSuccess(context.Background(), "job-123", "", ""))

	require.Len(t, fake.calls, 1)
	assert.NotContains(t, fake.calls[0].Body, "executionDetails")
}

func TestReportFailure(t *testing.T) {
	fake := &fakeCodePipeline{}
	r := newReporter(t, fake)

	err := r.ReportFailure(context.Background(), "job-456", "AccessDenied: Access Denied")
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	c := fake.calls[0]
	assert.True(t, strings.HasSuffix(c.Target, ".PutJobFailureResult"), c.Target)
	assert.Equal(t, "job-456", c.Body["jobId"])

	details, ok := c.Body["failureDetails"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, codepipeline.FailureTypeJobFailed, details["type"])
	assert.Equal(t, "AccessDenied: Access Denied", details["message"])
}

func TestReportFailure_EmptyAndLongMessages(t *testing.T) {
	fake := &fakeCodePipeline{}
	r := newReporter(t, fake)

	require.NoError(t, r.ReportFailure(context.Background(), "job-1", ""))
	require.NoError(t, r.ReportFailure(context.Background(), "job-2", strings.Repeat("x", util.MaxFailureMessage*2)))

	require.Len(t, fake.calls, 2)
	first := fake.calls[0].Body["failureDetails"].(map[string]interface{})
	assert.NotEmpty(t, first["message"])

	second := fake.calls[1].Body["failureDetails"].(map[string]interface{})
	assert.Len(t, second["message"], util.MaxFailureMessage)
}

func TestReport_ServiceError(t *testing.T) {
	fake := &fakeCodePipeline{
		status: http.StatusBadRequest,
		body:   `{"__type":"JobNotFoundException","message":"job not found"}`,
	}
	r := newReporter(t, fake)

	err := r.ReportSuccess(context.Background(), "job-789", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job-789")
	assert.Contains(t, err.Error(), "job not found")

	err = r.ReportFailure(context.Background(), "job-789", "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job not found")
}
