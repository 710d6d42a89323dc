package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mpix/pkg/imgutil"
)

// Enumerate walks the source folder and returns the ordered job list with
// output paths already resolved. The walk is lexical, so two runs over the
// same tree enumerate identically. The output directory itself is skipped so
// prior runs are never reprocessed.
func Enumerate(cfg Config) ([]Job, error) {
	cfg = cfg.normalized()

	info, err := os.Stat(cfg.Source)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, cfg.Source)
	}

	absSource, err := filepath.Abs(cfg.Source)
	if err != nil {
		return nil, err
	}
	absOutput, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	fsys := os.DirFS(absSource)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == "." {
				return nil
			}
			if !cfg.Recurse {
				return fs.SkipDir
			}
			if isWithin(filepath.Join(absSource, path), absOutput) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		kind := imgutil.KindByExt(path)
		if kind == imgutil.KindUnknown {
			return nil
		}

		jobs = append(jobs, Job{
			SourcePath: filepath.Join(absSource, path),
			RelPath:    filepath.FromSlash(path),
			Seq:        len(jobs),
			Kind:       kind,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	planOutputs(jobs)
	return jobs, nil
}

// isWithin reports whether path is root or inside it.
func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !strings.HasPrefix(rel, "..")
}
