package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/porelab/porenet/pkg/pipeline"
)

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte // rendered artifacts keyed by format
	formats   []string          // requested formats, in output order
	input     string            // input path the base name falls back to
	output    string            // output file or base path from --output
	cacheHit  bool              // whether the artifacts came from cache
}

// writeArtifacts writes rendered artifacts to disk, one file per format,
// and prints the written paths.
func writeArtifacts(p artifactWriteParams) error {
	base := outputBase(p.output, p.input)

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" && filepath.Ext(p.output) != "" {
			path = p.output
		}

		if err := writeFile(path, data); err != nil {
			return err
		}
		printFile(path)
	}

	if p.cacheHit {
		printDetail("from cache")
	}
	return nil
}

// outputBase derives the base output path from --output and the input
// path. A known format extension on either is stripped so per-format
// suffixes can be appended.
func outputBase(output, input string) string {
	if output == "" {
		if input == "" {
			return "network"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
