package duplicate

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kadmin/kaltura"
)

func TestPlaylistIDs(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want []string
	}{
		{
			name: "plain list",
			xml:  "<metadata><channelPlaylistsIds>1_a,1_b</channelPlaylistsIds></metadata>",
			want: []string{"1_a", "1_b"},
		},
		{
			name: "spaces and empties",
			xml:  "<metadata><channelPlaylistsIds> 1_a , ,1_b,</channelPlaylistsIds></metadata>",
			want: []string{"1_a", "1_b"},
		},
		{
			name: "empty element",
			xml:  "<metadata><channelPlaylistsIds></channelPlaylistsIds></metadata>",
			want: nil,
		},
		{
			name: "no element",
			xml:  "<metadata><other>x</other></metadata>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlaylistIDs(tt.xml)
			if len(got) != len(tt.want) {
				t.Fatalf("PlaylistIDs() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("id %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMergePlaylistIDs(t *testing.T) {
	xml := "<metadata><channelPlaylistsIds>1_a</channelPlaylistsIds><other>keep</other></metadata>"
	merged := MergePlaylistIDs(xml, []string{"1_b", "1_a", "1_c"})

	if got := PlaylistIDs(merged); strings.Join(got, ",") != "1_a,1_b,1_c" {
		t.Errorf("merged ids = %v, want deduplicated union in order", got)
	}
	if !strings.Contains(merged, "<other>keep</other>") {
		t.Error("merge must leave other metadata elements alone")
	}
}

func TestMergePlaylistIDsMissingElement(t *testing.T) {
	merged := MergePlaylistIDs("<metadata><other>x</other></metadata>", []string{"1_a"})
	if got := PlaylistIDs(merged); len(got) != 1 || got[0] != "1_a" {
		t.Errorf("merged ids = %v, want [1_a]", got)
	}
	if !strings.Contains(merged, "<other>x</other>") {
		t.Errorf("merged = %q, existing elements must survive", merged)
	}
}

// pidServer plays one account's API, recording calls by service.action.
type pidServer struct {
	t        *testing.T
	name     string
	handlers map[string]func(r *http.Request) string
}

func (s *pidServer) client(t *testing.T) *kaltura.Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.FormValue("service") + "." + r.FormValue("action")
		h, ok := s.handlers[key]
		if !ok {
			s.t.Errorf("%s: unexpected call %s", s.name, key)
			fmt.Fprint(w, `{"objectType":"KalturaAPIException","code":"SERVICE_FORBIDDEN","message":"unexpected"}`)
			return
		}
		fmt.Fprint(w, h(r))
	}))
	t.Cleanup(server.Close)
	cfg := kaltura.DefaultConfig()
	cfg.ServiceURL = server.URL
	cfg.RPS = 1000
	client := kaltura.New(cfg)
	client.SetKS("ks")
	return client
}

func emptyList(*http.Request) string { return `{"objects":[],"totalCount":0}` }

func TestEntriesCopiesParentBeforeChild(t *testing.T) {
	source := &pidServer{t: t, name: "source", handlers: map[string]func(*http.Request) string{
		"flavorasset.list": func(r *http.Request) string {
			return `{"objects":[{"id":"1_flv","isOriginal":true,"sizeInBytes":1000}],"totalCount":1}`
		},
		"flavorasset.getUrl":              func(r *http.Request) string { return `"https://cdn.example.com/src.mp4"` },
		"thumbasset.list":                 emptyList,
		"caption_captionasset.list":       emptyList,
		"attachment_attachmentasset.list": emptyList,
		"cuepoint_cuepoint.list":          emptyList,
	}}

	var addedParents []string
	created := 0
	dest := &pidServer{t: t, name: "dest", handlers: map[string]func(*http.Request) string{
		"media.add": func(r *http.Request) string {
			addedParents = append(addedParents, r.FormValue("entry:parentEntryId"))
			created++
			return fmt.Sprintf(`{"objectType":"KalturaMediaEntry","id":"0_dest%d"}`, created)
		},
		"media.updateContent": func(r *http.Request) string {
			if got := r.FormValue("resource:url"); got != "https://cdn.example.com/src.mp4" {
				t.Errorf("resource url = %q", got)
			}
			return `{"objectType":"KalturaMediaEntry","id":"0_dest"}`
		},
	}}

	targets := []kaltura.MediaEntry{
		{ID: "0_child", Name: "Child", ParentEntryID: "0_parent", MediaType: kaltura.MediaTypeVideo},
		{ID: "0_parent", Name: "Parent", MediaType: kaltura.MediaTypeVideo},
	}

	res, err := Entries(t.Context(), source.client(t), dest.client(t), targets,
		Options{ReportsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if res.Copied != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(addedParents) != 2 {
		t.Fatalf("media.add calls = %d, want 2", len(addedParents))
	}
	if addedParents[0] != "" {
		t.Errorf("parent copy carried parentEntryId %q", addedParents[0])
	}
	if addedParents[1] != res.IDMap["0_parent"] {
		t.Errorf("child parentEntryId = %q, want mapped id %q", addedParents[1], res.IDMap["0_parent"])
	}
}

func TestEntriesImageUsesDownloadURL(t *testing.T) {
	source := &pidServer{t: t, name: "source", handlers: map[string]func(*http.Request) string{
		"thumbasset.list":                 emptyList,
		"caption_captionasset.list":       emptyList,
		"attachment_attachmentasset.list": emptyList,
		"cuepoint_cuepoint.list":          emptyList,
	}}
	var ingested string
	dest := &pidServer{t: t, name: "dest", handlers: map[string]func(*http.Request) string{
		"media.add": func(r *http.Request) string {
			return `{"objectType":"KalturaMediaEntry","id":"0_img"}`
		},
		"media.updateContent": func(r *http.Request) string {
			ingested = r.FormValue("resource:url")
			return `{"objectType":"KalturaMediaEntry","id":"0_img"}`
		},
	}}

	targets := []kaltura.MediaEntry{{
		ID: "0_pic", Name: "Slide", MediaType: kaltura.MediaTypeImage,
		DownloadURL: "https://cdn.example.com/pic.jpg",
	}}
	res, err := Entries(t.Context(), source.client(t), dest.client(t), targets,
		Options{ReportsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if res.Copied != 1 {
		t.Fatalf("result = %+v", res)
	}
	if ingested != "https://cdn.example.com/pic.jpg" {
		t.Errorf("ingested = %q, want the image download URL", ingested)
	}
}

func TestEntriesAppliesOwnerAndTag(t *testing.T) {
	source := &pidServer{t: t, name: "source", handlers: map[string]func(*http.Request) string{
		"flavorasset.list":                emptyList,
		"thumbasset.list":                 emptyList,
		"caption_captionasset.list":       emptyList,
		"attachment_attachmentasset.list": emptyList,
		"cuepoint_cuepoint.list":          emptyList,
	}}
	dest := &pidServer{t: t, name: "dest", handlers: map[string]func(*http.Request) string{
		"media.add": func(r *http.Request) string {
			if got := r.FormValue("entry:userId"); got != "newowner" {
				t.Errorf("userId = %q, want newowner", got)
			}
			if got := r.FormValue("entry:tags"); got != "lecture,migrated-2026" {
				t.Errorf("tags = %q", got)
			}
			return `{"objectType":"KalturaMediaEntry","id":"0_new"}`
		},
	}}

	targets := []kaltura.MediaEntry{{
		ID: "0_a", Name: "Lecture", Tags: "lecture",
		UserID: "oldowner", MediaType: kaltura.MediaTypeVideo,
	}}
	res, err := Entries(t.Context(), source.client(t), dest.client(t), targets, Options{
		Owner:      "newowner",
		ExtraTag:   "migrated-2026",
		ReportsDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if res.Copied != 1 {
		t.Errorf("result = %+v", res)
	}
}
