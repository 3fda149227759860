package cfg

import "testing"

func TestRefreshRequested(t *testing.T) {
	c := &Cfg{Refresh: []string{"codabench"}}
	if !c.RefreshRequested("codabench") {
		t.Error("Expected refresh for named source")
	}
	if c.RefreshRequested("codalab-old") {
		t.Error("Expected no refresh for unnamed source")
	}

	c = &Cfg{Refresh: []string{"all"}}
	if !c.RefreshRequested("codalab-old") || !c.RefreshRequested("codabench") {
		t.Error("Expected 'all' to refresh every source")
	}

	c = &Cfg{}
	if c.RefreshRequested("codabench") {
		t.Error("Expected no refresh when none requested")
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("Expected a non-empty version")
	}
}
