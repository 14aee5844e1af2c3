package entries

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kadmin/kaltura"
	"kadmin/prompt"
)

func TestParseDeleteMode(t *testing.T) {
	if _, err := ParseDeleteMode("DELETE"); err != nil {
		t.Errorf("ParseDeleteMode(DELETE) error = %v", err)
	}
	if _, err := ParseDeleteMode("RECYCLE"); err != nil {
		t.Errorf("ParseDeleteMode(RECYCLE) error = %v", err)
	}
	if _, err := ParseDeleteMode("delete"); err == nil {
		t.Error("lowercase mode must be rejected")
	}
	if _, err := ParseDeleteMode("PURGE"); err == nil {
		t.Error("unknown mode must be rejected")
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lecture 1", "Lecture 1"},
		{"a/b\\c:d", "a_b_c_d"},
		{"q?<>|*", "q_"},
		{"...", "untitled"},
		{"", "untitled"},
		{"week-2 review.v2", "week-2 review.v2"},
	}
	for _, tt := range tests {
		if got := SafeFilename(tt.in); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// apiServer routes service.action calls to canned handlers.
type apiServer struct {
	t        *testing.T
	handlers map[string]func(r *http.Request) string
	calls    []string
}

func (s *apiServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.FormValue("service") + "." + r.FormValue("action")
		s.calls = append(s.calls, key)
		h, ok := s.handlers[key]
		if !ok {
			s.t.Errorf("unexpected API call %s", key)
			fmt.Fprint(w, `{"objectType":"KalturaAPIException","code":"SERVICE_FORBIDDEN","message":"unexpected"}`)
			return
		}
		fmt.Fprint(w, h(r))
	}
}

func newTestClient(t *testing.T, s *apiServer) *kaltura.Client {
	server := httptest.NewServer(s.handler())
	t.Cleanup(server.Close)
	cfg := kaltura.DefaultConfig()
	cfg.ServiceURL = server.URL
	cfg.RPS = 1000
	client := kaltura.New(cfg)
	client.SetKS("test-ks")
	return client
}

func TestResolveCategoryByCourse(t *testing.T) {
	s := &apiServer{t: t, handlers: map[string]func(*http.Request) string{
		"category.list": func(r *http.Request) string {
			if got := r.FormValue("filter:fullNameEqual"); got != "MediaSpace>site>channels>BIO-101" {
				t.Errorf("fullNameEqual = %q", got)
			}
			return `{"objects":[{"id":42,"fullName":"MediaSpace>site>channels>BIO-101"}],"totalCount":1}`
		},
	}}
	client := newTestClient(t, s)

	id, err := ResolveCategory(t.Context(), client, RepublishTarget{
		FullNamePrefix: "MediaSpace>site>channels>",
		CourseID:       "BIO-101",
	})
	if err != nil {
		t.Fatalf("ResolveCategory() error = %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
}

func TestResolveCategoryAmbiguous(t *testing.T) {
	s := &apiServer{t: t, handlers: map[string]func(*http.Request) string{
		"category.list": func(r *http.Request) string {
			return `{"objects":[{"id":42},{"id":43}],"totalCount":2}`
		},
	}}
	client := newTestClient(t, s)

	_, err := ResolveCategory(t.Context(), client, RepublishTarget{CourseID: "BIO-101"})
	if err == nil || !strings.Contains(err.Error(), "--category") {
		t.Errorf("error = %v, want ambiguity guidance", err)
	}
}

func TestRepublishActiveEntry(t *testing.T) {
	placements := 1 // starts published
	s := &apiServer{t: t}
	s.handlers = map[string]func(*http.Request) string{
		"baseEntry.get": func(r *http.Request) string {
			return `{"objectType":"KalturaMediaEntry","id":"0_abc"}`
		},
		"categoryentry.list": func(r *http.Request) string {
			if placements == 0 {
				return `{"objects":[],"totalCount":0}`
			}
			return `{"objects":[{"categoryId":42,"entryId":"0_abc","status":2}],"totalCount":1}`
		},
		"categoryentry.delete": func(r *http.Request) string {
			placements = 0
			return `null`
		},
		"categoryentry.add": func(r *http.Request) string {
			placements = 1
			return `{"categoryId":42,"entryId":"0_abc","status":2}`
		},
	}
	client := newTestClient(t, s)

	if err := Republish(t.Context(), client, "0_abc", 42); err != nil {
		t.Fatalf("Republish() error = %v", err)
	}

	want := []string{"baseEntry.get", "categoryentry.list", "categoryentry.delete",
		"categoryentry.list", "categoryentry.add", "categoryentry.list"}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", s.calls, want)
	}
	for i := range want {
		if s.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, s.calls[i], want[i])
		}
	}
}

func TestRenameRequiresAffix(t *testing.T) {
	p := prompt.New(strings.NewReader(""), &strings.Builder{})
	_, err := Rename(t.Context(), nil, p, []kaltura.MediaEntry{{ID: "0_a"}}, RenameOptions{})
	if err == nil {
		t.Fatal("Rename() error = nil without prefix or suffix")
	}
}

func TestRenameAppliesAffixes(t *testing.T) {
	var gotName string
	s := &apiServer{t: t, handlers: map[string]func(*http.Request) string{
		"baseEntry.update": func(r *http.Request) string {
			gotName = r.FormValue("baseEntry:name")
			return `{"objectType":"KalturaMediaEntry","id":"0_abc","name":"` + gotName + `"}`
		},
	}}
	client := newTestClient(t, s)

	p := prompt.New(strings.NewReader("y\n"), &strings.Builder{})
	res, err := Rename(t.Context(), client, p, []kaltura.MediaEntry{{ID: "0_abc", Name: "Lecture 1"}},
		RenameOptions{Prefix: "[OLD] ", Suffix: " (2024)", ReportsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if gotName != "[OLD] Lecture 1 (2024)" {
		t.Errorf("sent name = %q", gotName)
	}
	if res.Renamed != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
}
