package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/shared/paths"
	"go.uber.org/zap"
)

// Entry describes one discovered addon
type Entry struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Root     string `json:"root"`
	Bundle   bool   `json:"bundle"`
	HasAPI   bool   `json:"has_api"`
	HasTasks bool   `json:"has_tasks"`
}

// Discover lists every addon directory under the roots. A name found under
// several roots is reported once, from the first root. Missing roots are
// skipped. Discovered locations prime the lookup cache; names already cached
// keep their cached answer.
func (r *Registry) Discover() ([]Entry, error) {
	seen := make(map[string]bool)
	var entries []Entry

	for _, root := range r.roots {
		dirents, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				r.logger.Debug("Addon root missing", zap.String("root", root))
				continue
			}
			return nil, fmt.Errorf("read addon root %s: %w", root, err)
		}

		for _, d := range dirents {
			name := d.Name()
			if seen[name] || strings.HasPrefix(name, ".") || addon.ValidateName(name) != nil {
				continue
			}

			location := filepath.Join(root, name)
			if !isDir(location) {
				continue
			}
			seen[name] = true

			actual, _ := r.entries.LoadOrStore(name, entry{location: location, found: true})
			if e := actual.(entry); !e.found || e.location != location {
				continue
			}

			entries = append(entries, Entry{
				Name:     name,
				Location: location,
				Root:     root,
				Bundle:   r.bundleRoot != "" && filepath.Clean(root) == filepath.Clean(r.bundleRoot),
				HasAPI:   isFile(paths.APIFile(location, name)),
				HasTasks: isFile(paths.TasksFile(location, name)),
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	r.metrics.SetAddonsInstalled(len(entries))
	r.logger.Info("Addon discovery complete", zap.Int("addons", len(entries)), zap.Int("roots", len(r.roots)))
	return entries, nil
}
