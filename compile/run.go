package compile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"scopec/state"
)

// Run is the compile subcommand entry point. It discovers component sources,
// compiles each one and writes rewritten css and marked template markup to
// the destination directory. Components are independent: they are compiled
// concurrently and one component's failure never blocks the others, all
// failures are collected and reported together.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	files, root, err := discover(src, env.Cfg.Compile.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No component sources found", zap.String("source", src))
		return nil
	}
	// deterministic processing order regardless of discovery order
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })

	log.Info("Processing starting",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Int("components", len(files)),
		zap.String("build", env.BuildID.String()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, files, root, dst, env, log)
}

// process compiles all discovered components with a bounded worker pool.
func process(ctx context.Context, files []string, root, dst string, env *state.LocalEnv, log *zap.Logger) error {
	workers := env.Cfg.Compile.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
		done int
	)
	sem := make(chan struct{}, workers)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := processFile(path, root, dst, env, log)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				log.Error("Component compilation failed", zap.String("source", path), zap.Error(err))
				return
			}
			done++
		}(path)
	}
	wg.Wait()

	log.Info("Components compiled", zap.Int("succeeded", done), zap.Int("failed", len(files)-done))
	return errs
}

func processFile(path, root, dst string, env *state.LocalEnv, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	art, err := Component(data, path, env, log)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	if art.CSS != "" {
		out := buildOutputPath(art, rel, dst, ".css", env)
		if err := writeArtifact(out, []byte(art.CSS), env); err != nil {
			return err
		}
		env.Rpt.StoreData(filepath.ToSlash(filepath.Join("output", art.Component+".css")), []byte(art.CSS))
		log.Debug("Wrote stylesheet", zap.String("component", art.Component), zap.String("path", out))
	}
	if art.Template != "" {
		out := buildOutputPath(art, rel, dst, ".html", env)
		if err := writeArtifact(out, []byte(art.Template), env); err != nil {
			return err
		}
		env.Rpt.StoreData(filepath.ToSlash(filepath.Join("output", art.Component+".html")), []byte(art.Template))
		log.Debug("Wrote template", zap.String("component", art.Component), zap.String("path", out), zap.Int("elements", art.Elements))
	}
	return nil
}

func writeArtifact(path string, data []byte, env *state.LocalEnv) error {
	if !env.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("output file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// discover resolves the input argument into component source files. A
// directory is walked for files matching configured extensions; a single
// file is taken as-is regardless of extension.
func discover(src string, extensions []string) ([]string, string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, "", err
	}

	if !info.IsDir() {
		return []string{src}, filepath.Dir(src), nil
	}

	var files []string
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		for _, want := range extensions {
			if strings.EqualFold(ext, want) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return files, src, nil
}
