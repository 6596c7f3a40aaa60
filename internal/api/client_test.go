package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell-cli/internal/model"
)

func TestListProjectsDecodesBackendTimestamps(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/projects" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		// datetime.isoformat() output has no zone suffix.
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Ash Garden","genre":"scifi","style":"spare",
			"status":"writing","target_length":300000,"chapter_count":3,"entity_count":12,
			"event_count":7,"created_at":"2026-08-20T14:03:05.123456"}]`))
	}))
	defer srv.Close()

	projects, err := New(srv.URL).ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	p := projects[0]
	if p.ID != "p1" || p.ChapterCount != 3 || p.TargetLength != 300000 {
		t.Fatalf("unexpected project: %+v", p)
	}
	if p.CreatedAt == nil || p.CreatedAt.Year() != 2026 {
		t.Fatalf("created_at not parsed: %+v", p.CreatedAt)
	}
}

func TestErrorDetailFromBackendBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Unknown story template"}`))
	}))
	defer srv.Close()

	in := model.CreateProjectInput{Name: "Ash Garden", Genre: "scifi", Style: "spare", TemplateID: strPtr("nope")}
	_, err := New(srv.URL).CreateProject(context.Background(), in)
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if ae.Status != http.StatusBadRequest || ae.Detail != "Unknown story template" {
		t.Fatalf("unexpected error: %+v", ae)
	}
	if got := UserMessage(err); got != "Unknown story template" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestDeleteProjectMissingIsNotAnError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Project not found"}`))
	}))
	defer srv.Close()

	out, err := New(srv.URL).DeleteProject(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if !out.Missing() || out.ProjectID != "ghost" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestDeleteProjectFallsBackToPostAction(t *testing.T) {
	t.Parallel()
	var posted bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case r.Method == http.MethodPost && r.URL.Path == "/api/projects/p1/delete":
			posted = true
			_, _ = w.Write([]byte(`{"status":"deleted","project_id":"p1","name":"Ash Garden"}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	out, err := New(srv.URL).DeleteProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if !posted {
		t.Fatal("POST fallback was not used")
	}
	if out.Status != "deleted" || out.Name != "Ash Garden" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestBatchDeleteFallsBackToCompatEndpoint(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case r.Method == http.MethodPost && r.URL.Path == "/api/projects/batch-delete":
			_, _ = w.Write([]byte(`{"requested_count":2,"deleted_count":1,"missing_count":1,
				"failed_count":0,
				"deleted":[{"status":"deleted","project_id":"a"}],
				"missing":[{"status":"missing","project_id":"b"}],
				"failed":[]}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	res, err := New(srv.URL).BatchDeleteProjects(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchDeleteProjects: %v", err)
	}
	if res.DeletedCount != 1 || res.MissingCount != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	ids := res.PurgedIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("PurgedIDs = %v", ids)
	}
}

func TestTimeoutClassification(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewWithTimeout(srv.URL, 20*time.Millisecond)
	_, err := c.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected timeout")
	}
	if !IsTimeout(err) {
		t.Fatalf("IsTimeout(%v) = false", err)
	}
	if got := UserMessage(err); got != "Request timed out. Is the studio backend running?" {
		t.Fatalf("UserMessage = %q", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	_, err = New(srv.URL).ListProjects(ctx)
	if !IsTimeout(err) {
		t.Fatalf("context deadline not classified as timeout: %v", err)
	}
}

func TestListStoryTemplatesUnwrapsEnvelope(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/story-templates" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"templates":[{"id":"short-story","name":"Short story",
			"category":"length","recommended":{"target_length":6000}}]}`))
	}))
	defer srv.Close()

	templates, err := New(srv.URL).ListStoryTemplates(context.Background())
	if err != nil {
		t.Fatalf("ListStoryTemplates: %v", err)
	}
	if len(templates) != 1 || templates[0].Recommended.TargetLength != 6000 {
		t.Fatalf("unexpected templates: %+v", templates)
	}
}

func strPtr(s string) *string { return &s }
