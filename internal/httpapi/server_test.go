package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/analytics"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/syllabus"
	"lectern/internal/testsupport"
	"lectern/internal/workflow"
)

type stubSyllabus struct {
	processResult *syllabus.Result
	processErr    error
	latest        *syllabus.LatestResult
	topics        []syllabus.TopicEntry
}

func (s *stubSyllabus) Process(_ context.Context, _, _ string) (*syllabus.Result, string, error) {
	if s.processErr != nil {
		return nil, "", s.processErr
	}
	return s.processResult, "", nil
}

func (s *stubSyllabus) Latest() (*syllabus.LatestResult, error) {
	return s.latest, nil
}

func (s *stubSyllabus) LatestTopicStructure() ([]syllabus.TopicEntry, error) {
	return s.topics, nil
}

type stubStatus struct {
	summary workflow.StatusSummary
}

func (s *stubStatus) Status(context.Context) workflow.StatusSummary {
	return s.summary
}

type testServer struct {
	server   *Server
	store    *lectures.Store
	cfg      *config.Config
	syllabus *stubSyllabus
}

func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	stub := &stubSyllabus{}
	deps := Deps{
		Store:     store,
		Workflow:  &stubStatus{summary: workflow.StatusSummary{Running: true}},
		Analytics: analytics.NewService(store, logging.NewNop()),
		Syllabus:  stub,
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &testServer{
		server:   New(cfg, deps, logging.NewNop()),
		store:    store,
		cfg:      cfg,
		syllabus: stub,
	}
}

func (ts *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func multipartFile(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf, writer.FormDataContentType()
}

func TestRootMessage(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeJSON(t, rec)
	if payload["message"] != "Hello Professors! This API provides class analytics." {
		t.Fatalf("unexpected message %q", payload["message"])
	}
}

func TestUploadCreatesPendingLecture(t *testing.T) {
	ts := newTestServer(t, nil)
	body, contentType := multipartFile(t, "file", "week1.mp3", "audio-bytes")
	rec := ts.do(t, http.MethodPost, "/upload/", body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeJSON(t, rec)
	if payload["status"] != "PROCESSING" {
		t.Fatalf("status field = %v", payload["status"])
	}
	id := int64(payload["lecture_id"].(float64))

	lecture, err := ts.store.GetByID(context.Background(), id)
	if err != nil || lecture == nil {
		t.Fatalf("lecture lookup: %v %v", lecture, err)
	}
	if lecture.Status != lectures.StatusPending {
		t.Fatalf("status = %s", lecture.Status)
	}
	if lecture.OriginalFilename != "week1.mp3" {
		t.Fatalf("original filename = %q", lecture.OriginalFilename)
	}
	if _, err := os.Stat(lecture.SourcePath); err != nil {
		t.Fatalf("saved audio missing: %v", err)
	}
	if !strings.HasPrefix(lecture.SourcePath, ts.cfg.Paths.UploadDir+string(filepath.Separator)) {
		t.Fatalf("audio stored outside upload dir: %s", lecture.SourcePath)
	}
}

func TestUploadRejectsNonAudio(t *testing.T) {
	ts := newTestServer(t, nil)
	body, contentType := multipartFile(t, "file", "notes.pdf", "pdf-bytes")
	rec := ts.do(t, http.MethodPost, "/upload/", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "Unsupported audio format." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}
}

func TestUploadRequiresFile(t *testing.T) {
	ts := newTestServer(t, nil)
	body, contentType := multipartFile(t, "other", "week1.mp3", "audio")
	rec := ts.do(t, http.MethodPost, "/upload/", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetLectureNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/lecture/42", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "Lecture not found" {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}
}

func TestGetLectureNullablePayloads(t *testing.T) {
	ts := newTestServer(t, nil)
	lecture := testsupport.NewLecture(t, ts.store, "/tmp/a.mp3", "a.mp3")

	rec := ts.do(t, http.MethodGet, "/lecture/1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeJSON(t, rec)
	if payload["status"] != "PROCESSING" {
		t.Fatalf("status = %v", payload["status"])
	}
	if payload["transcript"] != nil || payload["summary"] != nil {
		t.Fatalf("expected null payloads: %s", rec.Body.String())
	}

	lecture.Status = lectures.StatusCompleted
	lecture.Transcript = "hello class"
	lecture.SummaryJSON = `{"mainIdeas":["x"]}`
	if err := ts.store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec = ts.do(t, http.MethodGet, "/lecture/1", nil, "")
	payload = decodeJSON(t, rec)
	if payload["status"] != "DONE" {
		t.Fatalf("status = %v", payload["status"])
	}
	if payload["transcript"] != "hello class" {
		t.Fatalf("transcript = %v", payload["transcript"])
	}
}

func TestNotesLadder(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/lecture/9/notes", nil, "")
	if rec.Code != http.StatusNotFound || decodeJSON(t, rec)["detail"] != "Lecture not found" {
		t.Fatalf("missing lecture: %d %s", rec.Code, rec.Body.String())
	}

	lecture := testsupport.NewLecture(t, ts.store, "/tmp/a.mp3", "a.mp3")
	rec = ts.do(t, http.MethodGet, "/lecture/1/notes", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("processing lecture: %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "Lecture is still processing. Notes are not yet available." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}

	lecture.Status = lectures.StatusFailed
	if err := ts.store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec = ts.do(t, http.MethodGet, "/lecture/1/notes", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("failed lecture: %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "Notes were not found or could not be generated for this lecture." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}

	lecture.Status = lectures.StatusCompleted
	if err := ts.store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec = ts.do(t, http.MethodGet, "/lecture/1/notes", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty notes: %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "Notes were not found or could not be generated for this lecture." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}

	lecture.NotesJSON = "{not json"
	if err := ts.store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec = ts.do(t, http.MethodGet, "/lecture/1/notes", nil, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("corrupt notes: %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "Failed to parse the stored notes JSON." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}

	lecture.NotesJSON = `{"title":"Week 1","sections":[]}`
	if err := ts.store.Update(context.Background(), lecture); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec = ts.do(t, http.MethodGet, "/lecture/1/notes", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stored notes: %d %s", rec.Code, rec.Body.String())
	}
	if decodeJSON(t, rec)["title"] != "Week 1" {
		t.Fatalf("unexpected notes: %s", rec.Body.String())
	}
}

func TestAnalyticsEndpointsEmptyQueue(t *testing.T) {
	ts := newTestServer(t, nil)
	for route, key := range map[string]string{
		"/analytics/questions":   "questions_per_class",
		"/analytics/topics":      "topics_overview",
		"/analytics/summary":     "summary_metrics",
		"/analytics/transcripts": "transcript_length",
		"/analytics/timeline":    "lecture_timeline",
	} {
		rec := ts.do(t, http.MethodGet, route, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", route, rec.Code)
		}
		payload := decodeJSON(t, rec)
		if _, ok := payload[key]; !ok {
			t.Fatalf("%s missing key %q: %s", route, key, rec.Body.String())
		}
	}

	rec := ts.do(t, http.MethodGet, "/analytics/dashboard", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	payload := decodeJSON(t, rec)
	for _, key := range []string{"questions_per_class", "topics_overview", "transcript_length", "summary_metrics", "syllabus_coverage", "lecture_timeline"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("dashboard missing %q: %s", key, rec.Body.String())
		}
	}
}

func TestSyllabusResultNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/syllabus_result/", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "No syllabus result found yet." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/syllabus/topics", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("topics status = %d", rec.Code)
	}
	if decodeJSON(t, rec)["detail"] != "No syllabus result found yet. Please upload one first." {
		t.Fatalf("unexpected detail: %s", rec.Body.String())
	}
}

func TestSyllabusUploadSuccess(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.syllabus.processResult = &syllabus.Result{
		CoverageStats: syllabus.CoverageStats{
			TotalTopics:        4,
			CoveredTopics:      1,
			CoveragePercentage: 25,
			MissingTopics:      []string{"b", "c", "d"},
			MatchedTopics:      []string{"a"},
		},
	}
	body, contentType := multipartFile(t, "file", "syllabus.pdf", "pdf-bytes")
	rec := ts.do(t, http.MethodPost, "/upload_syllabus/", body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeJSON(t, rec)
	if payload["filename"] != "syllabus.pdf" {
		t.Fatalf("filename = %v", payload["filename"])
	}
	if _, ok := payload["coverage_result"]; !ok {
		t.Fatalf("missing coverage_result: %s", rec.Body.String())
	}
}

func TestSyllabusUploadValidationFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.syllabus.processErr = syllabusValidationErr()
	body, contentType := multipartFile(t, "file", "syllabus.pdf", "pdf-bytes")
	rec := ts.do(t, http.MethodPost, "/upload_syllabus/", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	message, _ := decodeJSON(t, rec)["detail"].(string)
	if !strings.HasPrefix(message, "Syllabus processing failed: ") {
		t.Fatalf("unexpected detail: %q", message)
	}
}

func TestSyllabusTopicsReturnsStructure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.syllabus.topics = []syllabus.TopicEntry{
		{MainTopic: "Recursion", Subtopics: []string{"Base cases"}},
	}
	rec := ts.do(t, http.MethodGet, "/syllabus/topics", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var entries []syllabus.TopicEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].MainTopic != "Recursion" {
		t.Fatalf("unexpected entries: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeJSON(t, rec)
	if payload["status"] != "ok" {
		t.Fatalf("status field = %v", payload["status"])
	}
	if payload["workflow_running"] != true {
		t.Fatalf("workflow_running = %v", payload["workflow_running"])
	}
}
