package usecase_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/infra"
	"github.com/m-mizutani/pqscan/pkg/repository/memory"
	"github.com/m-mizutani/pqscan/pkg/usecase"
)

type fakeScanner struct {
	ack      string
	statuses []string

	mu          sync.Mutex
	requests    []model.ExternalScanRequest
	authHeaders []string
	statusCalls atomic.Int32
}

func (x *fakeScanner) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x.mu.Lock()
	x.authHeaders = append(x.authHeaders, r.Header.Get("Authorization"))
	x.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/scan":
		var req model.ExternalScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		x.mu.Lock()
		x.requests = append(x.requests, req)
		x.mu.Unlock()
		_, _ = w.Write([]byte(x.ack))

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/status/"):
		n := int(x.statusCalls.Add(1))
		if n > len(x.statuses) {
			n = len(x.statuses)
		}
		_, _ = w.Write([]byte(x.statuses[n-1]))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (x *fakeScanner) Requests() []model.ExternalScanRequest {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]model.ExternalScanRequest(nil), x.requests...)
}

func (x *fakeScanner) AuthHeaders() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]string(nil), x.authHeaders...)
}

func completedStatus(t *testing.T, id string) string {
	raw, err := json.Marshal(map[string]string{
		"id":            id,
		"status":        "COMPLETED",
		"semgrepOutput": rsaToolOutput,
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func newExternalScanFixture(t *testing.T, scanner *fakeScanner) (*usecase.UseCase, *httptest.Server, types.ScanJobID, interfaces.ScanRepository) {
	srv := httptest.NewServer(scanner)
	t.Cleanup(srv.Close)

	repo := memory.New()
	uc := usecase.New(infra.New(
		infra.WithScanRepository(repo),
		infra.WithHTTPClient(srv.Client()),
	), usecase.WithPolling(0, 5*time.Millisecond, 5))

	ctx := clockContext()
	id := types.NewScanJobID()
	gt.NoError(t, repo.PutJob(ctx, &model.ScanJob{
		ID:      id,
		RepoURL: "https://github.com/example/repo.git",
		Status:  types.JobStatusPending,
	}))

	return uc, srv, id, repo
}

func integrationOf(srv *httptest.Server) model.ScannerIntegration {
	return model.ScannerIntegration{
		Name:      "fake",
		ScanURL:   srv.URL + "/scan",
		StatusURL: srv.URL + "/status",
		APIKey:    "test-api-key",
	}
}

func TestTriggerExternalScan(t *testing.T) {
	t.Run("completed scan is ingested once", func(t *testing.T) {
		scanner := &fakeScanner{
			ack: `{"status":"QUEUED","id":"abc"}`,
			statuses: []string{
				`{"id":"abc","status":"QUEUED"}`,
				`{"id":"abc","status":"RUNNING"}`,
				completedStatus(t, "abc"),
			},
		}
		uc, srv, jobID, repo := newExternalScanFixture(t, scanner)
		ctx := clockContext()

		extID := gt.R1(uc.TriggerExternalScan(ctx, jobID, "https://github.com/example/repo.git", "main", integrationOf(srv))).NoError(t)
		gt.V(t, extID).Equal(types.ExternalScanID("abc"))
		uc.WaitPollers()

		gt.V(t, scanner.statusCalls.Load()).Equal(int32(3))
		gt.A(t, scanner.Requests()).Length(1)
		gt.V(t, scanner.Requests()[0].RepoURL).Equal("https://github.com/example/repo.git")
		gt.V(t, scanner.Requests()[0].Tool).Equal("both")
		gt.V(t, scanner.Requests()[0].Branch).Equal("main")
		for _, h := range scanner.AuthHeaders() {
			gt.V(t, h).Equal("Bearer test-api-key")
		}

		reports := gt.R1(repo.ListReports(ctx, jobID)).NoError(t)
		gt.A(t, reports).Length(1)
		gt.V(t, reports[0].Source).Equal(types.ReportSourceExternal)
		gt.V(t, reports[0].ExternalID).Equal(types.ExternalScanID("abc"))
		gt.V(t, reports[0].Compliance.Vulnerable).Equal(1)
		gt.S(t, string(reports[0].Content)).Contains("PQC-RSA")

		// the local job is untouched
		job := gt.R1(repo.GetJob(ctx, jobID)).NoError(t)
		gt.V(t, job.Status).Equal(types.JobStatusPending)
		gt.V(t, job.Progress).Equal(0)
	})

	t.Run("failed scan creates no report", func(t *testing.T) {
		scanner := &fakeScanner{
			ack: `{"status":"QUEUED","id":"abc"}`,
			statuses: []string{
				`{"id":"abc","status":"RUNNING"}`,
				`{"id":"abc","status":"FAILED","errorMessage":"clone failed"}`,
			},
		}
		uc, srv, jobID, repo := newExternalScanFixture(t, scanner)
		ctx := clockContext()

		gt.R1(uc.TriggerExternalScan(ctx, jobID, "https://github.com/example/repo.git", "main", integrationOf(srv))).NoError(t)
		uc.WaitPollers()

		gt.V(t, scanner.statusCalls.Load()).Equal(int32(2))
		gt.A(t, gt.R1(repo.ListReports(ctx, jobID)).NoError(t)).Length(0)

		job := gt.R1(repo.GetJob(ctx, jobID)).NoError(t)
		gt.V(t, job.Status).Equal(types.JobStatusPending)
	})

	t.Run("polling gives up after max attempts", func(t *testing.T) {
		scanner := &fakeScanner{
			ack:      `{"status":"QUEUED","id":"abc"}`,
			statuses: []string{`{"id":"abc","status":"RUNNING"}`},
		}
		uc, srv, jobID, repo := newExternalScanFixture(t, scanner)
		ctx := clockContext()

		gt.R1(uc.TriggerExternalScan(ctx, jobID, "https://github.com/example/repo.git", "main", integrationOf(srv))).NoError(t)
		uc.WaitPollers()

		gt.V(t, scanner.statusCalls.Load()).Equal(int32(5))
		gt.A(t, gt.R1(repo.ListReports(ctx, jobID)).NoError(t)).Length(0)
	})

	t.Run("unexpected acknowledgement", func(t *testing.T) {
		for _, ack := range []string{
			`{"status":"RUNNING","id":"abc"}`,
			`{"status":"QUEUED"}`,
			`{"status":"QUEUED","id":""}`,
			`not json`,
		} {
			scanner := &fakeScanner{ack: ack}
			uc, srv, jobID, _ := newExternalScanFixture(t, scanner)

			_, err := uc.TriggerExternalScan(clockContext(), jobID, "https://github.com/example/repo.git", "main", integrationOf(srv))
			gt.True(t, errors.Is(err, types.ErrIntegration))
			uc.WaitPollers()
			gt.V(t, scanner.statusCalls.Load()).Equal(int32(0))
		}
	})

	t.Run("rejected request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad key"}`))
		}))
		defer srv.Close()

		uc := usecase.New(infra.New(infra.WithHTTPClient(srv.Client())))
		_, err := uc.TriggerExternalScan(clockContext(), types.NewScanJobID(), "https://github.com/example/repo.git", "main", integrationOf(srv))
		gt.True(t, errors.Is(err, types.ErrIntegration))
	})

	t.Run("invalid integration URL", func(t *testing.T) {
		uc := usecase.New(infra.New())
		_, err := uc.TriggerExternalScan(clockContext(), types.NewScanJobID(), "https://github.com/example/repo.git", "main", model.ScannerIntegration{
			ScanURL:   "ftp://scanner.example.com/scan",
			StatusURL: "https://scanner.example.com/status",
		})
		gt.True(t, errors.Is(err, types.ErrValidationFailed))
	})
}

func TestSubmitTriggersExternalScan(t *testing.T) {
	t.Run("trigger on submit", func(t *testing.T) {
		scanner := &fakeScanner{
			ack:      `{"status":"QUEUED","id":"xyz"}`,
			statuses: []string{completedStatus(t, "xyz")},
		}
		uc, srv, _, repo := newExternalScanFixture(t, scanner)
		ctx := clockContext()

		integration := integrationOf(srv)
		id := gt.R1(uc.Submit(ctx, &model.ScanJob{
			RepoURL:     "https://github.com/example/repo.git",
			Branch:      "develop",
			Integration: &integration,
		})).NoError(t)
		uc.WaitPollers()

		gt.A(t, scanner.Requests()).Length(1)
		gt.V(t, scanner.Requests()[0].Branch).Equal("develop")

		reports := gt.R1(repo.ListReports(ctx, id)).NoError(t)
		gt.A(t, reports).Length(1)
		gt.V(t, reports[0].ExternalID).Equal(types.ExternalScanID("xyz"))

		job := gt.R1(repo.GetJob(ctx, id)).NoError(t)
		gt.V(t, job.Status).Equal(types.JobStatusPending)
	})

	t.Run("trigger failure does not reject the job", func(t *testing.T) {
		scanner := &fakeScanner{ack: `{"status":"REJECTED"}`}
		uc, srv, _, _ := newExternalScanFixture(t, scanner)
		ctx := clockContext()

		integration := integrationOf(srv)
		id := gt.R1(uc.Submit(ctx, &model.ScanJob{
			RepoURL:     "https://github.com/example/repo.git",
			Integration: &integration,
		})).NoError(t)

		job := gt.R1(uc.Get(ctx, id)).NoError(t)
		gt.V(t, job.Status).Equal(types.JobStatusPending)
	})
}
