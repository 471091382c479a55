package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/object-measure/internal/detection"
	"github.com/ironsheep/object-measure/internal/geometry"
	"github.com/ironsheep/object-measure/internal/imaging"
)

// ConvertOptions describe a mask to polygon conversion.
type ConvertOptions struct {
	// Input is a mask file or a directory of masks.
	Input string

	// Output is a .json file when Input is a file, otherwise a directory
	// that is created to hold one .json per mask.
	Output string

	Substring string
	Workers   int

	// Threshold binarises the input as a grayscale image before labeling
	// when greater than zero. Pixels above it become foreground.
	Threshold int
}

// ConvertResult counts converted and failed masks.
type ConvertResult struct {
	Converted int
	Failed    int
	Directory string
}

// MaskToPolygons traces the objects of the mask at maskPath and writes them
// as polygon JSON to outPath.
func MaskToPolygons(maskPath, outPath string, threshold int) (int, error) {
	mask, err := loadMask(maskPath, threshold)
	if err != nil {
		return 0, err
	}
	_, polygons, err := mask.Polygons()
	if err != nil {
		return 0, err
	}
	if err := geometry.WritePolygonsJSON(outPath, polygons.Polygons()); err != nil {
		return 0, err
	}
	return polygons.Len(), nil
}

func loadMask(path string, threshold int) (*detection.Mask, error) {
	if threshold <= 0 {
		return imaging.OpenMask(path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Threshold(img, uint8(min(threshold, 255))), nil
}

// ConvertMasks converts one mask or a directory of masks to polygon JSON.
func ConvertMasks(ctx context.Context, opts ConvertOptions, log logrus.FieldLogger) (*ConvertResult, error) {
	info, err := os.Stat(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrImageRead, err)
	}

	if !info.IsDir() {
		if !imaging.IsSupported(opts.Input) {
			return nil, fmt.Errorf("%w: %s", imaging.ErrImageExtension, opts.Input)
		}
		if !strings.EqualFold(filepath.Ext(opts.Output), ".json") {
			return nil, fmt.Errorf("%w: output for a single mask must end with .json", ErrOutput)
		}
		n, err := MaskToPolygons(opts.Input, opts.Output, opts.Threshold)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"mask": opts.Input, "objects": n}).Info("Converted mask to polygons")
		return &ConvertResult{Converted: 1}, nil
	}

	if filepath.Ext(opts.Output) != "" {
		return nil, fmt.Errorf("%w: output for a mask directory must be a directory", ErrOutput)
	}
	masks, err := CollectFiles(opts.Input, imaging.SupportedExtensions, opts.Substring)
	if err != nil {
		return nil, err
	}
	if len(masks) == 0 {
		return nil, fmt.Errorf("%w: no masks in %s", ErrNoFiles, opts.Input)
	}
	log.WithField("masks", len(masks)).Info("Detected masks")

	dir, err := CreateDirectory(opts.Output)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan string)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result = &ConvertResult{Directory: dir}
	)
	for w := 0; w < min(workers, len(masks)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				err := ctx.Err()
				if err == nil {
					out := filepath.Join(dir, Stem(path)+".json")
					_, err = MaskToPolygons(path, out, opts.Threshold)
				}

				mu.Lock()
				if err != nil {
					result.Failed++
					log.WithField("mask", path).WithError(err).Warn("Conversion failed")
				} else {
					result.Converted++
				}
				mu.Unlock()
			}
		}()
	}
	for _, m := range masks {
		jobs <- m
	}
	close(jobs)
	wg.Wait()

	log.WithFields(logrus.Fields{
		"converted": result.Converted,
		"failed":    result.Failed,
	}).Info("Conversion complete")
	return result, nil
}
