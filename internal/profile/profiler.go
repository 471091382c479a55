package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/config"
	"github.com/ironsheep/object-measure/internal/geometry"
	"github.com/ironsheep/object-measure/internal/imaging"
	"github.com/ironsheep/object-measure/internal/table"
)

const (
	// CountsFile lists "id<TAB>objects" for every pair that succeeded.
	CountsFile = "object_counts.tsv"

	// ErrorsFile lists "id<TAB>error" for every pair that failed.
	ErrorsFile = "object_errors.tsv"

	// DescriptorsName is the stem of the table written into an output
	// directory.
	DescriptorsName = "descriptors"
)

// ErrOutput is returned for an unusable output path.
var ErrOutput = errors.New("invalid output path")

// Options describe one profiling run.
type Options struct {
	Segments Segments

	// Images is the image directory. SegmentsPath defaults to it when empty.
	Images       string
	SegmentsPath string

	ImageSubstring   string
	SegmentSubstring string

	// Output is either a table file (.csv, .tsv, .txt) or a directory that
	// is created to hold the table and the ledgers.
	Output string

	// Format of the table written into an output directory.
	Format string

	Workers int
	Settings
}

// OptionsFromConfig fills the processing and output fields from cfg.
func OptionsFromConfig(cfg *config.Config, kind Segments) Options {
	return Options{
		Segments: kind,
		Output:   cfg.Output.Directory,
		Format:   cfg.Output.Format,
		Workers:  cfg.Processing.Workers,
		Settings: Settings{
			Mode:         cfg.Processing.Mode,
			Pad:          cfg.Processing.Pad,
			MinSize:      cfg.Processing.MinSize,
			DropBorders:  cfg.Processing.DropBorders,
			ResampleForm: cfg.Processing.ResampleForm,
		},
	}
}

// Result summarises a finished run.
type Result struct {
	RunID     string
	Pairs     int
	Succeeded int
	Failed    int
	Objects   int

	// Table is the descriptor table path, empty when nothing succeeded.
	Table string

	// Directory is the output directory, empty when Output named a file.
	Directory string

	Elapsed time.Duration
}

type pairResult struct {
	objects *Objects
	err     error
}

func (o *Options) validate() error {
	if o.Images == "" {
		return fmt.Errorf("%w: no image directory", ErrDirectory)
	}
	if o.SegmentsPath == "" {
		o.SegmentsPath = o.Images
	}
	if filepath.Clean(o.Images) == filepath.Clean(o.SegmentsPath) && o.ImageSubstring == o.SegmentSubstring {
		// Mask files share image extensions; json segments are told apart by
		// extension alone.
		if o.Segments == Masks {
			return ErrSamePath
		}
	}
	if o.Output == "" {
		return fmt.Errorf("%w: empty", ErrOutput)
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	if o.MinSize < 1 {
		return fmt.Errorf("%w: min size must be >= 1, got %d", config.ErrInvalidConfig, o.MinSize)
	}
	if o.Pad < 0 {
		return fmt.Errorf("%w: pad must be >= 0, got %d", config.ErrInvalidConfig, o.Pad)
	}
	if o.Format == "" {
		o.Format = "csv"
	}
	if _, err := table.Delimiter(o.Format); err != nil {
		return err
	}
	return o.Segments.ValidateMode(o.Mode)
}

// Discover returns the image and segment pairs of a run.
func Discover(opts Options) ([]Pair, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return discover(opts)
}

func discover(opts Options) ([]Pair, error) {
	images, err := CollectFiles(opts.Images, imaging.SupportedExtensions, opts.ImageSubstring)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", ErrNoFiles, opts.Images)
	}
	segments, err := CollectFiles(opts.SegmentsPath, opts.Segments.Extensions(), opts.SegmentSubstring)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrNoFiles, opts.Segments, opts.SegmentsPath)
	}
	pairs := PairFiles(images, segments, opts.ImageSubstring, opts.SegmentSubstring)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no image matches a %s file by name", ErrNoFiles, opts.Segments)
	}
	return pairs, nil
}

// resolveOutput returns the table path and, when output is a directory,
// the directory created for it.
func resolveOutput(output, format string) (tablePath, dir string, err error) {
	if ext := filepath.Ext(output); ext != "" {
		if _, err := table.FormatOf(output); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrOutput, err)
		}
		parent := filepath.Dir(output)
		if info, err := os.Stat(parent); err != nil || !info.IsDir() {
			return "", "", fmt.Errorf("%w: parent directory %s does not exist", ErrOutput, parent)
		}
		return output, "", nil
	}

	dir, err = CreateDirectory(output)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, DescriptorsName+"."+strings.ToLower(format)), dir, nil
}

// Run profiles every pair found under opts and writes the descriptor table
// and, for directory output, the ledgers. Failed pairs do not stop the run.
// Cancelling ctx stops workers from taking further pairs; pairs not started
// are recorded as failed with the context error.
func Run(ctx context.Context, opts Options, log logrus.FieldLogger) (*Result, error) {
	start := time.Now()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log = log.WithFields(logrus.Fields{
		"run_id":   runID,
		"segments": opts.Segments.String(),
		"mode":     opts.Mode,
	})

	pairs, err := discover(opts)
	if err != nil {
		return nil, err
	}
	log.WithField("pairs", len(pairs)).Info("Detected image and segment pairs")

	tablePath, dir, err := resolveOutput(opts.Output, opts.Format)
	if err != nil {
		return nil, err
	}

	results := runPairs(ctx, pairs, opts, log)

	res := &Result{RunID: runID, Pairs: len(pairs), Directory: dir}
	var counts, failures []string
	for i, r := range results {
		if r.err != nil {
			res.Failed++
			failures = append(failures, ledgerLine(pairs[i].ID, r.err.Error()))
			continue
		}
		res.Succeeded++
		res.Objects += r.objects.Len()
		counts = append(counts, ledgerLine(pairs[i].ID, fmt.Sprint(r.objects.Len())))
	}

	if res.Succeeded > 0 {
		if err := writeTable(tablePath, opts.Format, opts.Mode, pairs, results); err != nil {
			return res, err
		}
		res.Table = tablePath
	}

	if dir != "" {
		if len(counts) > 0 {
			header := "# run_id=" + runID
			if err := writeLedger(filepath.Join(dir, CountsFile), header, counts); err != nil {
				return res, err
			}
		}
		if len(failures) > 0 {
			if err := writeLedger(filepath.Join(dir, ErrorsFile), "", failures); err != nil {
				return res, err
			}
		}
	}

	res.Elapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"objects":   res.Objects,
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
		"elapsed":   res.Elapsed.String(),
	}).Info("Profiling complete")
	return res, nil
}

// runPairs fans pairs out to opts.Workers goroutines. results[i] belongs to
// pairs[i].
func runPairs(ctx context.Context, pairs []Pair, opts Options, log logrus.FieldLogger) []pairResult {
	results := make([]pairResult, len(pairs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(opts.Workers, max(len(pairs), 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = pairResult{err: err}
					continue
				}
				objects, err := ProfilePair(pairs[i], opts.Segments, opts.Settings)
				results[i] = pairResult{objects: objects, err: err}

				entry := log.WithField("image", pairs[i].ID)
				if err != nil {
					entry.WithError(err).Warn("Profiling failed")
				} else {
					entry.WithField("objects", objects.Len()).Debug("Profiled image")
				}
			}
		}()
	}

	for i := range pairs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// ProfilePair opens one image and its segment file and measures every
// object.
func ProfilePair(p Pair, kind Segments, s Settings) (*Objects, error) {
	img, err := imaging.Open(p.Image)
	if err != nil {
		return nil, err
	}
	return ProfileSegments(img, p.Segment, kind, s)
}

// ProfileSegments reads the segment file at path as kind and measures
// every object it describes on img.
func ProfileSegments(img buffer.Image, path string, kind Segments, s Settings) (*Objects, error) {
	switch kind {
	case Boxes:
		boxes, err := geometry.ReadBoundingBoxesJSON(path)
		if err != nil {
			return nil, err
		}
		return ProfileBoxes(img, boxes, s)
	case Polygons:
		polygons, err := geometry.ReadPolygonsJSON(path)
		if err != nil {
			return nil, err
		}
		return ProfilePolygons(img, polygons, s)
	}
	mask, err := imaging.OpenMask(path)
	if err != nil {
		return nil, err
	}
	return ProfileMask(img, mask, s)
}

func writeTable(path, format, mode string, pairs []Pair, results []pairResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	defer f.Close()

	if ext, err := table.FormatOf(path); err == nil {
		format = ext
	}
	w, err := table.New(f, format, Columns(mode))
	if err != nil {
		return err
	}
	for i, r := range results {
		if r.err != nil {
			continue
		}
		if err := w.WriteAll(Stem(pairs[i].Image), r.objects.IDs, r.objects.Values); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ledgerLine joins id and value with a tab. Newlines inside value are
// flattened so every entry stays on one line.
func ledgerLine(id, value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return id + "\t" + value
}

func writeLedger(path, header string, lines []string) error {
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteByte('\n')
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return nil
}
