package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lmercat/scango/internal/config"
	"github.com/lmercat/scango/internal/plugin"
)

func projectWithPages(t *testing.T, pages ...string) string {
	t.Helper()
	dir := t.TempDir()
	rawDir := filepath.Join(dir, "raw")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range pages {
		if err := os.WriteFile(filepath.Join(rawDir, p), []byte("page data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func invoke(t *testing.T, project string, cfg *config.Namespace) {
	t.Helper()
	hc := plugin.HookContext{
		ProjectPath: project,
		Config:      cfg,
		Logger:      log.New(io.Discard),
	}
	if err := New().Invoke(context.Background(), plugin.HookOutput, hc); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func defaultsConfig() *config.Namespace {
	cfg := config.New()
	New().Template().ApplyDefaults(cfg, "archive")
	return cfg
}

func TestInvoke_ZipContainsAllPages(t *testing.T) {
	project := projectWithPages(t, "left-odd-0001.jpg", "right-even-0001.jpg")
	invoke(t, project, defaultsConfig())

	r, err := zip.OpenReader(filepath.Join(project, "pages.zip"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	if len(r.File) != 2 {
		t.Fatalf("archive holds %d entries, want 2", len(r.File))
	}
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	if !names["left-odd-0001.jpg"] || !names["right-even-0001.jpg"] {
		t.Errorf("unexpected entries: %v", names)
	}
}

func TestInvoke_TarFormat(t *testing.T) {
	project := projectWithPages(t, "page.jpg")
	cfg := defaultsConfig()
	cfg.Set("archive.format", "tar")
	invoke(t, project, cfg)

	f, err := os.Open(filepath.Join(project, "pages.tar"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()

	tr := tar.NewReader(f)
	hdr, err := tr.Next()
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if hdr.Name != "page.jpg" {
		t.Errorf("entry = %q, want page.jpg", hdr.Name)
	}
}

func TestInvoke_KeepOriginalsByDefault(t *testing.T) {
	project := projectWithPages(t, "page.jpg")
	invoke(t, project, defaultsConfig())

	if _, err := os.Stat(filepath.Join(project, "raw", "page.jpg")); err != nil {
		t.Errorf("original page removed: %v", err)
	}
}

func TestInvoke_RemoveOriginalsWhenDisabled(t *testing.T) {
	project := projectWithPages(t, "page.jpg")
	cfg := defaultsConfig()
	cfg.Set("archive.keep_originals", false)
	invoke(t, project, cfg)

	if _, err := os.Stat(filepath.Join(project, "raw", "page.jpg")); !os.IsNotExist(err) {
		t.Error("original page should have been removed")
	}
	if _, err := os.Stat(filepath.Join(project, "pages.zip")); err != nil {
		t.Errorf("archive missing: %v", err)
	}
}

func TestInvoke_NoPagesIsANoOp(t *testing.T) {
	project := t.TempDir()
	invoke(t, project, defaultsConfig())

	if _, err := os.Stat(filepath.Join(project, "pages.zip")); !os.IsNotExist(err) {
		t.Error("no archive should be written for an empty project")
	}
}

func TestInvoke_IgnoresOtherHooks(t *testing.T) {
	project := projectWithPages(t, "page.jpg")
	hc := plugin.HookContext{
		ProjectPath: project,
		Config:      defaultsConfig(),
		Logger:      log.New(io.Discard),
	}
	if err := New().Invoke(context.Background(), plugin.HookProcess, hc); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, "pages.zip")); !os.IsNotExist(err) {
		t.Error("archive written for a non-output hook")
	}
}
