package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vitiscli/internal/config"
	apperrors "vitiscli/internal/errors"
)

// FileInfo represents information about a discovered data file
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"-"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// Inventory lists the files of every data stage
type Inventory struct {
	Raw       []FileInfo `json:"raw"`
	Processed []FileInfo `json:"processed"`
	Reports   []FileInfo `json:"reports"`
}

// Extensions recognised in each directory
var (
	rawExtensions   = []string{".csv", ".xlsx", ".xlsm"}
	tableExtensions = []string{".csv"}
)

// Catalog discovers the raw inputs, processed datasets and report tables
// under the configured directories
type Catalog struct {
	paths *config.Paths
}

// NewCatalog creates a catalog over paths
func NewCatalog(paths *config.Paths) *Catalog {
	return &Catalog{paths: paths}
}

// Inventory lists every stage. Directories that do not exist yet are empty.
func (c *Catalog) Inventory() (Inventory, error) {
	raw, err := FindFiles(c.paths.RawDir, rawExtensions...)
	if err != nil {
		return Inventory{}, err
	}
	processed, err := FindFiles(c.paths.ProcessedDir, tableExtensions...)
	if err != nil {
		return Inventory{}, err
	}
	reports, err := FindFiles(c.paths.ReportsDir, tableExtensions...)
	if err != nil {
		return Inventory{}, err
	}
	return Inventory{Raw: raw, Processed: processed, Reports: reports}, nil
}

// ReportFile resolves name inside the reports directory. Names containing a
// path separator are rejected.
func (c *Catalog) ReportFile(name string) (FileInfo, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return FileInfo{}, apperrors.NewAppError(apperrors.ErrTypeValidation,
			fmt.Sprintf("invalid report file name %q", name), nil)
	}
	if !hasExtension(name, tableExtensions) {
		return FileInfo{}, apperrors.NewAppError(apperrors.ErrTypeValidation,
			fmt.Sprintf("report %q is not a CSV table", name), nil)
	}

	path := filepath.Join(c.paths.ReportsDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return FileInfo{}, apperrors.NewAppError(apperrors.ErrTypeNotFound,
			fmt.Sprintf("report %s not found", name), err)
	}
	return FileInfo{Name: name, Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// FindFiles lists the regular files of dir whose extension matches one of
// exts (case-insensitive), sorted by name. A missing dir yields no files.
func FindFiles(dir string, exts ...string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		if len(exts) > 0 && !hasExtension(name, exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    name,
			Path:    filepath.Join(dir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
