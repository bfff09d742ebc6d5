package compile

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"scopec/config"
	"scopec/state"
)

// buildOutputPath constructs the output file path for one compiled artifact.
// It uses either the default naming scheme or a user-defined template and
// takes into account whether to preserve source directory structure on the
// output. Path segments are cleaned and, if requested, transliterated.
func buildOutputPath(a *Artifacts, srcRel, dst, ext string, env *state.LocalEnv) string {
	outDir := dst
	if !env.NoDirs {
		outDir = filepath.Join(dst, filepath.Dir(srcRel))
	}
	defaultFile := defaultFileName(srcRel, ext, env)

	if env.Cfg.Compile.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Compile.OutputNameTemplate, Values{
		Component:  a.Component,
		Scope:      a.Scope.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(srcRel), filepath.Ext(srcRel)),
		BuildID:    env.BuildID.String(),
	})
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}

	return assemblePath(outDir, filepath.FromSlash(expanded), ext, env)
}

func defaultFileName(src, ext string, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Compile.FileNameTransliterate {
		baseName = slug.Make(baseName)
	}
	return config.CleanFileName(baseName) + ext
}

// assemblePath turns an expanded template name, which may contain path
// separators for subdirectories, into a full output path with each segment
// cleaned.
func assemblePath(outDir, expanded, ext string, env *state.LocalEnv) string {
	segments := splitPath(expanded)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanSegment(segment, env))
	}
	parts = append(parts, cleanSegment(segments[len(segments)-1], env)+ext)
	return filepath.Join(parts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
		path = head
	}
	return segments
}

func cleanSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Compile.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
