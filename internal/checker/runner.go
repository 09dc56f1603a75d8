// Package checker drives the external Lean checker binary and turns its
// structured output into declaration libraries.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"leangraph/internal/decl"
)

// errorMarker is the substring the checker prints when a file fails to
// elaborate. Its presence in the output channel must never be ignored.
const errorMarker = ": error:"

// ErrCheckerFailed marks checker output carrying an error marker while the
// runner operates under PolicyFail.
var ErrCheckerFailed = errors.New("checker reported an error")

// Policy selects how a checker-reported error is handled.
type Policy string

const (
	// PolicyWarn logs the failure and continues with partial data.
	PolicyWarn Policy = "warn"
	// PolicyFail aborts the crawl for the affected file.
	PolicyFail Policy = "fail"
)

// Config configures the checker invocation.
type Config struct {
	// Path of the checker binary.
	Path string
	// Args passed before the file argument.
	Args []string
	// Timeout per invocation; zero means DefaultTimeout.
	Timeout time.Duration
	// Policy for checker-reported errors.
	Policy Policy
}

// DefaultTimeout bounds one checker invocation.
const DefaultTimeout = 5 * time.Minute

// DefaultConfig returns the conventional Lean invocation.
func DefaultConfig() Config {
	return Config{
		Path:    "lean",
		Args:    []string{"-T500000"},
		Timeout: DefaultTimeout,
		Policy:  PolicyFail,
	}
}

// Runner invokes the checker. The structured declaration records arrive on
// the checker's stderr stream.
type Runner struct {
	cfg Config
	log *slog.Logger
}

// NewRunner creates a runner. A nil logger falls back to slog.Default.
func NewRunner(cfg Config, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = "lean"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyFail
	}
	return &Runner{cfg: cfg, log: log}
}

// Run executes the checker on one file and returns its output blob. The
// checker exiting non-zero is not itself fatal; error markers inside the
// output are handled by the caller's policy.
func (r *Runner) Run(ctx context.Context, path, workDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, r.cfg.Args...), path)
	cmd := exec.CommandContext(ctx, r.cfg.Path, args...)
	cmd.Dir = workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.log.Debug("invoking checker", "path", path, "dir", workDir)
	err := cmd.Run()
	if ctx.Err() != nil {
		return "", fmt.Errorf("checker on %s: %w", path, ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("checker on %s: %w", path, err)
		}
	}
	return stderr.String(), nil
}

// checkOutput applies the error policy to a checker output blob.
func (r *Runner) checkOutput(path, output string) error {
	if !strings.Contains(output, errorMarker) {
		return nil
	}
	if r.cfg.Policy == PolicyWarn {
		r.log.Warn("checker reported an error, continuing with partial data", "path", path)
		return nil
	}
	return fmt.Errorf("checking %s: %w", path, ErrCheckerFailed)
}

// CrawlResult is the outcome of crawling one source file.
type CrawlResult struct {
	Library *decl.Library
	Imports []string
	Lines   int
}

// probeImport is the declaration-dumping probe staged in front of every
// crawled file. The checker elaborates the file with the probe in scope
// and prints one record per declaration.
const (
	probeImport = "import deps\n"
	probeEval   = "\n#eval print_content"
)

// CrawlFile stages a copy of the source file with the probe wired in,
// runs the checker from root, and parses the resulting records into a
// library named after the file. Files opening with a `prelude` directive
// get the probe inserted after it instead of at the top.
func (r *Runner) CrawlFile(ctx context.Context, path, root string, prelude bool) (*CrawlResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	res := &CrawlResult{}
	var staged strings.Builder
	if !prelude {
		staged.WriteString(probeImport)
	}
	for _, line := range strings.Split(string(src), "\n") {
		res.Lines++
		staged.WriteString(line)
		staged.WriteString("\n")
		if prelude && strings.Contains(line, "prelude") {
			staged.WriteString(probeImport)
		}
		res.Imports = append(res.Imports, ExtractImports(line)...)
	}
	staged.WriteString(probeEval)

	tmp, err := os.CreateTemp(filepath.Dir(path), "crawl-*.lean")
	if err != nil {
		return nil, fmt.Errorf("staging %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.WriteString(staged.String()); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("staging %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("staging %s: %w", path, err)
	}

	output, err := r.Run(ctx, tmpPath, root)
	if err != nil {
		return nil, err
	}
	if output == "" {
		r.log.Warn("no checker output", "path", path)
		res.Library = decl.NewLibrary(path)
		return res, nil
	}
	if err := r.checkOutput(path, output); err != nil {
		return nil, err
	}

	lib, err := decl.FromYAML(path, []byte(output))
	if err != nil {
		return nil, err
	}
	res.Library = lib
	return res, nil
}
