package channels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kadmin/kaltura"
)

func TestParsePrivacy(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"open", PrivacyPublic, false},
		{"Public", PrivacyPublic, false},
		{"restricted", PrivacyAuthenticated, false},
		{"PRIVATE", PrivacyMembers, false},
		{" members ", PrivacyMembers, false},
		{"secret", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePrivacy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePrivacy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrivacy(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "channels.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const header = "channelName,owner,members,privacy\n"

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, header+
		"Biology 101,prof@example.edu,ta1@example.edu;ta2@example.edu,restricted\n"+
		"Chemistry 201,chem@example.edu,,open\n")

	plans, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	if len(plans[0].Members) != 2 || plans[0].Members[1] != "ta2@example.edu" {
		t.Errorf("members = %v", plans[0].Members)
	}
	if plans[0].Privacy != PrivacyAuthenticated {
		t.Errorf("privacy = %d", plans[0].Privacy)
	}
	if plans[1].Members != nil {
		t.Errorf("empty members column should yield no members, got %v", plans[1].Members)
	}
}

func TestLoadPlanOwnerNotDuplicatedAsMember(t *testing.T) {
	path := writePlan(t, header+"Biology 101,prof@example.edu,prof@example.edu;ta@example.edu,open\n")
	plans, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}
	if len(plans[0].Members) != 1 || plans[0].Members[0] != "ta@example.edu" {
		t.Errorf("members = %v, owner must not appear", plans[0].Members)
	}
}

func TestLoadPlanRejectsDuplicates(t *testing.T) {
	path := writePlan(t, header+
		"Biology 101,a@example.edu,,open\n"+
		"biology 101,b@example.edu,,open\n")
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("LoadPlan() error = nil for duplicate channel names")
	}
}

func TestLoadPlanRejectsBadPrivacy(t *testing.T) {
	path := writePlan(t, header+"Biology 101,a@example.edu,,hidden\n")
	_, err := LoadPlan(path)
	if err == nil {
		t.Fatal("LoadPlan() error = nil for bad privacy")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %v should name the failing line", err)
	}
}

func TestLoadPlanRejectsMissingOwner(t *testing.T) {
	path := writePlan(t, header+"Biology 101,,,open\n")
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("LoadPlan() error = nil for missing owner")
	}
}

func TestRoleName(t *testing.T) {
	category := kaltura.Category{Owner: "prof@example.edu"}

	tests := []struct {
		name       string
		membership kaltura.CategoryUser
		want       string
	}{
		{"owner outranks level", kaltura.CategoryUser{UserID: "prof@example.edu", PermissionLevel: kaltura.PermissionMember}, "owner"},
		{"manager", kaltura.CategoryUser{UserID: "x", PermissionLevel: kaltura.PermissionManager}, "manager"},
		{"moderator", kaltura.CategoryUser{UserID: "x", PermissionLevel: kaltura.PermissionModerator}, "moderator"},
		{"contributor", kaltura.CategoryUser{UserID: "x", PermissionLevel: kaltura.PermissionContributor}, "contributor"},
		{"member", kaltura.CategoryUser{UserID: "x", PermissionLevel: kaltura.PermissionMember}, "member"},
		{"none", kaltura.CategoryUser{UserID: "x", PermissionLevel: kaltura.PermissionNone}, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleName(category, tt.membership); got != tt.want {
				t.Errorf("RoleName() = %q, want %q", got, tt.want)
			}
		})
	}
}
