package web

import (
	"io/fs"
	"testing"
)

func TestFS_ContainsBundle(t *testing.T) {
	for _, name := range []string{"index.html", "app.js", "styles.css"} {
		info, err := fs.Stat(FS(), name)
		if err != nil {
			t.Errorf("bundle missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
