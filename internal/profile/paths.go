package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrDirectory is returned when a directory cannot be read or created.
	ErrDirectory = errors.New("directory error")

	// ErrNoFiles is returned when discovery finds nothing to process.
	ErrNoFiles = errors.New("no matching files")

	// ErrSamePath is returned when images and segments share a directory
	// and cannot be told apart by substring.
	ErrSamePath = errors.New("images and segments in the same directory need different substrings")
)

// maxDirectorySuffix bounds the _<n> suffixes tried by CreateDirectory.
const maxDirectorySuffix = 30

// Pair is one image matched with its segment file.
type Pair struct {
	ID      string
	Image   string
	Segment string
}

// CollectFiles lists the regular files directly inside dir whose extension
// is in exts and whose name contains substring. An empty substring matches
// every name. The result is sorted.
func CollectFiles(dir string, exts []string, substring string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectory, dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !slices.Contains(exts, ext) {
			continue
		}
		if substring != "" && !strings.Contains(name, substring) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}

// Stem returns the file name of path without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PairFiles matches images to segments by stem after removing imageSub from
// image stems and segmentSub from segment stems. Segments with no image are
// skipped. Pairs are sorted by ID.
func PairFiles(images, segments []string, imageSub, segmentSub string) []Pair {
	byID := make(map[string]string, len(images))
	for _, img := range images {
		byID[strip(Stem(img), imageSub)] = img
	}

	pairs := make([]Pair, 0, len(segments))
	for _, seg := range segments {
		id := strip(Stem(seg), segmentSub)
		if img, ok := byID[id]; ok {
			pairs = append(pairs, Pair{ID: id, Image: img, Segment: seg})
		}
	}
	slices.SortFunc(pairs, func(a, b Pair) int { return strings.Compare(a.ID, b.ID) })
	return pairs
}

func strip(stem, sub string) string {
	if sub == "" {
		return stem
	}
	return strings.ReplaceAll(stem, sub, "")
}

// CreateDirectory creates dir. If dir already exists it tries dir_0,
// dir_1 and so on, and returns the path actually created.
func CreateDirectory(dir string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0755); err != nil {
			return "", fmt.Errorf("%w: %v", ErrDirectory, err)
		}
		return dir, nil
	}

	clean := filepath.Clean(dir)
	for i := 0; i < maxDirectorySuffix; i++ {
		candidate := fmt.Sprintf("%s_%d", clean, i)
		if _, err := os.Stat(candidate); !os.IsNotExist(err) {
			continue
		}
		if err := os.Mkdir(candidate, 0755); err != nil {
			return "", fmt.Errorf("%w: %v", ErrDirectory, err)
		}
		return candidate, nil
	}
	return "", fmt.Errorf("%w: no free name for %s after %d attempts", ErrDirectory, dir, maxDirectorySuffix)
}
