package screening

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spigell/ats-scanner/internal/document"
)

// CollectFiles expands args into resume paths. Files are kept as given, whatever their
// extension, so unsupported files are reported per file later. Directories contribute the
// pdf and docx files directly inside them, sorted by name.
func CollectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}

		var found []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, err := document.TypeFromPath(entry.Name()); err != nil {
				continue
			}
			found = append(found, filepath.Join(arg, entry.Name()))
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
