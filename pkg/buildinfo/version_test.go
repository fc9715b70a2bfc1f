package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFrom(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		name       string
		version    string
		info       debug.BuildInfo
		wantVer    string
		wantCommit string
	}{
		{
			name:    "module version",
			version: "dev",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			wantVer:    "v0.3.1",
			wantCommit: "abc123",
		},
		{
			name:       "devel build keeps dev",
			version:    "dev",
			info:       debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVer:    "dev",
			wantCommit: "none",
		},
		{
			name:       "ldflags win",
			version:    "v9.9.9",
			info:       debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}},
			wantVer:    "v9.9.9",
			wantCommit: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, "none", "unknown"
			fillFrom(&tt.info)
			if Version != tt.wantVer || Commit != tt.wantCommit {
				t.Errorf("got %s/%s, want %s/%s", Version, Commit, tt.wantVer, tt.wantCommit)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: "+Commit) {
		t.Errorf("String() = %q", String())
	}
}
