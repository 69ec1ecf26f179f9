package azure

import (
	"strings"
	"testing"
)

func TestParseRemoteURL_HTTPS(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		org    string
		proj   string
		repo   string
	}{
		{
			name:   "plain",
			remote: "https://dev.azure.com/contoso/Platform/_git/billing-api",
			org:    "contoso",
			proj:   "Platform",
			repo:   "billing-api",
		},
		{
			name:   "percent-encoded project",
			remote: "https://dev.azure.com/contoso/My%20Project/_git/billing-api",
			org:    "contoso",
			proj:   "My Project",
			repo:   "billing-api",
		},
		{
			name:   "credential helper user prefix",
			remote: "https://contoso@dev.azure.com/contoso/Platform/_git/billing-api",
			org:    "contoso",
			proj:   "Platform",
			repo:   "billing-api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRemoteURL(tt.remote)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Organization != tt.org {
				t.Errorf("org = %q, want %q", info.Organization, tt.org)
			}
			if info.Project != tt.proj {
				t.Errorf("project = %q, want %q", info.Project, tt.proj)
			}
			if info.Repository != tt.repo {
				t.Errorf("repo = %q, want %q", info.Repository, tt.repo)
			}
		})
	}
}

func TestParseRemoteURL_SSH(t *testing.T) {
	info, err := ParseRemoteURL("contoso@vs-ssh.visualstudio.com:v3/contoso/Platform/billing-api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Organization != "contoso" || info.Project != "Platform" || info.Repository != "billing-api" {
		t.Errorf("got %+v", info)
	}
}

func TestParseRemoteURL_Rejected(t *testing.T) {
	remotes := []string{
		"https://github.com/contoso/billing-api.git",
		"git@github.com:contoso/billing-api.git",
		"https://gitlab.com/contoso/billing-api",
		"",
		"not a url",
	}

	for _, remote := range remotes {
		if _, err := ParseRemoteURL(remote); err == nil {
			t.Errorf("ParseRemoteURL(%q) should fail", remote)
		} else if !strings.Contains(err.Error(), "Azure DevOps") {
			t.Errorf("error for %q should name the expected form, got: %v", remote, err)
		}
	}
}

func TestExtractWorkItemID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"64805: Add feature", "64805"},
		{"123: too short", ""},
		{"1234-feature", "1234"},
		{"feature/64805-add-thing", ""},
		{"987654 trailing words", "987654"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractWorkItemID(tt.in); got != tt.want {
			t.Errorf("ExtractWorkItemID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
