package nextgfx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bodgit/nextgfx/aseprite"
)

func findSources(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, editors and version control keep their state there
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !aseprite.IsSource(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Sources expands paths into the list of inputs to convert. Files are used
// as given, directories are searched recursively for Aseprite files which
// are returned sorted.
func (c *Converter) Sources(paths ...string) ([]string, error) {
	var sources []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			sources = append(sources, path)
			continue
		}

		found, err := c.scan(path)
		if err != nil {
			return nil, err
		}
		c.logger.Printf("Found %d sources in \"%s\"\n", len(found), path)
		sources = append(sources, found...)
	}
	return sources, nil
}

func (c *Converter) scan(dir string) ([]string, error) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	files, errc, err := findSources(ctx, dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for file := range files {
		found = append(found, file)
	}

	if err := waitForPipeline(errc); err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}
