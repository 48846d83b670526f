package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartgrade/backend/internal/grader"
	"github.com/smartgrade/backend/internal/jobs"
	"github.com/smartgrade/backend/internal/service"
	"github.com/smartgrade/backend/internal/store"
)

// newTestServer wires the full stack against an in-memory database and the
// canned grader, the same way cmd/server does against real dependencies.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	grading := service.NewGradingService(jobs.NewStore(), s, s, grader.NewStatic(), logger, service.Options{})

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(s, grading, logger))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// pollJob polls grade-result until the job leaves pending or the deadline hits.
func pollJob(t *testing.T, srv *httptest.Server, jobID string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/ai-grading/grade-result/" + jobID)
		if err != nil {
			t.Fatalf("GET grade-result: %v", err)
		}
		var body map[string]any
		decodeBody(t, resp, &body)
		if body["status"] != "pending" {
			return body
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func seedProblemsAndSubmissions(t *testing.T, srv *httptest.Server) {
	t.Helper()

	resp := postJSON(t, srv.URL+"/problems", `{"problems":[
		{"number":"1","type":"计算题","stem":"1+1=?","criterion":"correct sum","max_score":10},
		{"number":"2","type":"概念题","stem":"define X","criterion":"names the property","max_score":5}
	]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create problems: got status %d", resp.StatusCode)
	}
	var created CreateProblemsResponse
	decodeBody(t, resp, &created)
	if len(created.Created) != 2 || created.Created[0] != "q1" || created.Created[1] != "q2" {
		t.Fatalf("created ids = %v, want [q1 q2]", created.Created)
	}

	resp = postJSON(t, srv.URL+"/submissions", `{"submissions":[
		{"stu_id":"s1","stu_name":"Alice","stu_ans":[
			{"q_id":"q1","number":"1","type":"计算题","content":"2"},
			{"q_id":"q2","number":"2","type":"概念题","content":"it is X"}
		]},
		{"stu_id":"s2","stu_name":"Bob","stu_ans":[
			{"q_id":"q1","number":"1","type":"计算题","content":"3"}
		]}
	]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create submissions: got status %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGradeStudentFlow(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp := postJSON(t, srv.URL+"/ai-grading/grade-student", `{"student_id":"s1"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("grade-student: got status %d, want 202", resp.StatusCode)
	}
	var start StartGradingResponse
	decodeBody(t, resp, &start)
	if start.JobID == "" {
		t.Fatal("grade-student returned empty job_id")
	}

	body := pollJob(t, srv, start.JobID)
	if body["status"] != "completed" {
		t.Fatalf("status = %v, want completed", body["status"])
	}
	if body["student_id"] != "s1" {
		t.Errorf("student_id = %v, want s1", body["student_id"])
	}
	corrections, ok := body["corrections"].([]any)
	if !ok || len(corrections) != 2 {
		t.Fatalf("corrections = %v, want 2 entries", body["corrections"])
	}
	first := corrections[0].(map[string]any)
	if first["q_id"] != "q1" || first["score"] != 10.0 {
		t.Errorf("first correction = %v, want q1 at full marks", first)
	}
}

func TestGradeStudentRequiresStudentID(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/ai-grading/grade-student", `{"student_id":""}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", resp.StatusCode)
	}
}

func TestGradeUnknownStudentReportsError(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp := postJSON(t, srv.URL+"/ai-grading/grade-student", `{"student_id":"ghost"}`)
	var start StartGradingResponse
	decodeBody(t, resp, &start)

	body := pollJob(t, srv, start.JobID)
	if body["status"] != "error" {
		t.Fatalf("status = %v, want error", body["status"])
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "ghost") {
		t.Errorf("message = %q, want it to name the student", msg)
	}
}

func TestGradeAllFlow(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp := postJSON(t, srv.URL+"/ai-grading/grade-all", `{}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("grade-all: got status %d, want 202", resp.StatusCode)
	}
	var start StartGradingResponse
	decodeBody(t, resp, &start)

	body := pollJob(t, srv, start.JobID)
	if body["status"] != "completed" {
		t.Fatalf("status = %v, want completed", body["status"])
	}
	results, ok := body["results"].([]any)
	if !ok || len(results) != 2 {
		t.Fatalf("results = %v, want 2 students", body["results"])
	}
	first := results[0].(map[string]any)
	if first["student_id"] != "s1" {
		t.Errorf("results not sorted by student id: first = %v", first["student_id"])
	}
}

func TestGradeResultUnknownJob(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ai-grading/grade-result/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("got status %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["status"] != "not_found" {
		t.Errorf("status = %v, want not_found", body["status"])
	}
}

func TestGradingSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp := postJSON(t, srv.URL+"/ai-grading/grade-all", `{}`)
	var start StartGradingResponse
	decodeBody(t, resp, &start)
	pollJob(t, srv, start.JobID)

	resp, err := http.Get(srv.URL + "/ai-grading/grade-result/" + start.JobID + "/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: got status %d, want 200", resp.StatusCode)
	}
	var summary service.JobSummary
	decodeBody(t, resp, &summary)
	if len(summary.Students) != 2 {
		t.Fatalf("summary students = %d, want 2", len(summary.Students))
	}
	if summary.Students[0].GradeLevel != "excellent" {
		t.Errorf("grade level = %q, want excellent for full marks", summary.Students[0].GradeLevel)
	}

	// Unknown and unfinished jobs map to 404.
	resp, err = http.Get(srv.URL + "/ai-grading/grade-result/nope/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown job summary: got status %d, want 404", resp.StatusCode)
	}
}

func TestGradingExportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp := postJSON(t, srv.URL+"/ai-grading/grade-student", `{"student_id":"s1"}`)
	var start StartGradingResponse
	decodeBody(t, resp, &start)
	pollJob(t, srv, start.JobID)

	resp, err := http.Get(srv.URL + "/ai-grading/grade-result/" + start.JobID + "/export")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: got status %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("export lines = %d, want header + 2 corrections", len(lines))
	}
	if !strings.HasPrefix(lines[0], "student_id,q_id,type,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "s1,q1,") {
		t.Errorf("first row = %q, want it to start with s1,q1", lines[1])
	}
}

func TestProblemCRUD(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp, err := http.Get(srv.URL + "/problems/q2")
	if err != nil {
		t.Fatalf("GET problem: %v", err)
	}
	var got map[string]any
	decodeBody(t, resp, &got)
	if got["stem"] != "define X" || got["max_score"] != 5.0 {
		t.Errorf("problem q2 = %v", got)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/problems/q2/criterion", bytes.NewBufferString(`{"criterion":"revised"}`))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT criterion: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update criterion: got status %d, want 204", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/problems/q2")
	if err != nil {
		t.Fatalf("GET problem: %v", err)
	}
	decodeBody(t, resp, &got)
	if got["criterion"] != "revised" {
		t.Errorf("criterion = %v, want revised", got["criterion"])
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/problems/q2", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE problem: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete problem: got status %d, want 204", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/problems/q2")
	if err != nil {
		t.Fatalf("GET problem: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted problem: got status %d, want 404", resp.StatusCode)
	}
}

func TestSubmissionCRUD(t *testing.T) {
	srv := newTestServer(t)
	seedProblemsAndSubmissions(t, srv)

	resp, err := http.Get(srv.URL + "/submissions")
	if err != nil {
		t.Fatalf("GET submissions: %v", err)
	}
	var list []map[string]any
	decodeBody(t, resp, &list)
	if len(list) != 2 {
		t.Fatalf("submissions = %d, want 2", len(list))
	}

	resp, err = http.Get(srv.URL + "/submissions/s2")
	if err != nil {
		t.Fatalf("GET submission: %v", err)
	}
	var sub map[string]any
	decodeBody(t, resp, &sub)
	if sub["stu_name"] != "Bob" {
		t.Errorf("stu_name = %v, want Bob", sub["stu_name"])
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/submissions/s2", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE submission: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete submission: got status %d, want 204", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/submissions/s2")
	if err != nil {
		t.Fatalf("GET submission: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted submission: got status %d, want 404", resp.StatusCode)
	}
}

func TestCreateSubmissionRejectsMissingStudentID(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/submissions", `{"submissions":[{"stu_id":"","stu_ans":[]}]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", resp.StatusCode)
	}
}
