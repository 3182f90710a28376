// Package archive is an output extension that bundles the captured pages
// of a project into a single zip or tar archive.
package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/lmercat/scango/internal/plugin"
)

// Extension implements the output hook.
type Extension struct{}

// New returns the archive extension.
func New() *Extension { return &Extension{} }

func (e *Extension) Name() string { return "archive" }

func (e *Extension) Hooks() []plugin.Hook {
	return []plugin.Hook{plugin.HookOutput}
}

func (e *Extension) Template() plugin.Template {
	return plugin.Template{
		plugin.EnumOption("format", "Archive format", "zip", "tar"),
		plugin.BoolOption("keep_originals", "Keep the page files after archiving", true),
	}
}

// Invoke bundles every file under <project>/raw into <project>/pages.<format>.
func (e *Extension) Invoke(ctx context.Context, hook plugin.Hook, hc plugin.HookContext) error {
	if hook != plugin.HookOutput {
		return nil
	}
	format := hc.Config.String("archive.format")
	if format == "" {
		format = "zip"
	}

	rawDir := filepath.Join(hc.ProjectPath, "raw")
	pages, err := listPages(rawDir)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		hc.Logger.Warn("no pages to archive", "dir", rawDir)
		return nil
	}

	target := filepath.Join(hc.ProjectPath, "pages."+format)
	switch format {
	case "zip":
		err = writeZip(target, rawDir, pages)
	case "tar":
		err = writeTar(target, rawDir, pages)
	default:
		err = fmt.Errorf("unknown archive format %q", format)
	}
	if err != nil {
		return err
	}
	hc.Logger.Info("archived pages", "count", len(pages), "target", target)

	if !hc.Config.Bool("archive.keep_originals") {
		for _, p := range pages {
			if err := os.Remove(filepath.Join(rawDir, p)); err != nil {
				return fmt.Errorf("remove original %s: %w", p, err)
			}
		}
	}
	return nil
}

func listPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read capture dir: %w", err)
	}
	var pages []string
	for _, e := range entries {
		if !e.IsDir() {
			pages = append(pages, e.Name())
		}
	}
	sort.Strings(pages)
	return pages, nil
}

func writeZip(target, dir string, pages []string) error {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, p := range pages {
		w, err := zw.Create(p)
		if err != nil {
			return fmt.Errorf("add %s: %w", p, err)
		}
		if err := copyFile(w, filepath.Join(dir, p)); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}

func writeTar(target, dir string, pages []string) error {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	tw := tar.NewWriter(f)
	for _, p := range pages {
		info, err := os.Stat(filepath.Join(dir, p))
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("header for %s: %w", p, err)
		}
		hdr.Name = p
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("add %s: %w", p, err)
		}
		if err := copyFile(tw, filepath.Join(dir, p)); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}

func copyFile(w io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}
