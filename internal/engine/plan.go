package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// planOutputs assigns each job its output path relative to the output
// directory. Every output is <stem>.jpg; when two sources share a stem (for
// example photo.png and photo.cr2), the later one in enumeration order gets
// a suffix derived from its original extension, so resolution is
// deterministic across runs. Further collisions append a dup counter.
func planOutputs(jobs []Job) {
	claimed := make(map[string]bool, len(jobs))

	for i := range jobs {
		rel := jobs[i].RelPath
		ext := filepath.Ext(rel)
		stem := strings.TrimSuffix(rel, ext)

		want := stem + ".jpg"
		if claimed[want] {
			tag := strings.TrimPrefix(strings.ToLower(ext), ".")
			want = stem + "_" + tag + ".jpg"
		}
		for n := 2; claimed[want]; n++ {
			want = fmt.Sprintf("%s - dup%d.jpg", stem, n)
		}

		claimed[want] = true
		jobs[i].OutputRel = want
	}
}
