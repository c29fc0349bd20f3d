package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v1.2.3"

	if s := String(); !strings.Contains(s, "version: v1.2.3") || !strings.Contains(s, "commit: "+Commit) {
		t.Errorf("String() = %q", s)
	}
	if got := UserAgent(); got != "funkyheatmap/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
	if tpl := Template(); !strings.Contains(tpl, "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", tpl)
	}
}
