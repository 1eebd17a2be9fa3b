// Package generation runs the external PDF generator for accepted jobs and
// delivers the finished artifacts back to the originating chat.
package generation

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/stickpick/stickpick/core/logger"
	"github.com/stickpick/stickpick/internal/pipeline"
	"log/slog"
)

// Config locates the generator binary and the working area for job folders.
type Config struct {
	Command    string `yaml:"command" envconfig:"GENERATOR_COMMAND"`
	OutputDir  string `yaml:"output_dir" envconfig:"GENERATOR_OUTPUT_DIR"`
	TimeoutSec int    `yaml:"timeout_seconds" envconfig:"GENERATOR_TIMEOUT_SECONDS"`
}

const (
	inputFile  = "input.png"
	resultFile = "result.pdf"

	defaultTimeout = 10 * time.Minute
)

// Runner renders jobs by shelling out to the configured generator. Each job
// gets its own folder under OutputDir named by the job id, so concurrent
// jobs never share files.
type Runner struct {
	cfg Config
}

// NewRunner validates the config and returns a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("generation: command is required")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("generation: create output dir: %w", err)
	}
	return &Runner{cfg: cfg}, nil
}

// Render writes the source image into a fresh job folder, invokes the
// generator, and returns the produced artifact paths.
func (r *Runner) Render(ctx context.Context, req *pipeline.Request) ([]string, error) {
	dir := filepath.Join(r.cfg.OutputDir, req.JobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("generation: create job dir: %w", err)
	}

	input := filepath.Join(dir, inputFile)
	f, err := os.Create(input)
	if err != nil {
		return nil, fmt.Errorf("generation: create input: %w", err)
	}
	if err := png.Encode(f, req.Image); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("generation: encode input: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("generation: flush input: %w", err)
	}

	timeout := defaultTimeout
	if r.cfg.TimeoutSec > 0 {
		timeout = time.Duration(r.cfg.TimeoutSec) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"--input", input,
		"--output", filepath.Join(dir, resultFile),
		"--format", req.SheetFormat,
		"--preset", string(req.Params.Preset),
		"--brightness", strconv.Itoa(req.Params.BrightnessLevel),
		"--detail", strconv.Itoa(req.Params.DetailThreshold),
	}

	start := time.Now()
	cmd := exec.CommandContext(runCtx, r.cfg.Command, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Error(ctx, "service.generation", "generator.run",
			slog.String("status", "fail"),
			slog.String("job_id", req.JobID),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
			slog.String("output", logger.SanitizeLimit(string(out), 512)),
		)
		return nil, fmt.Errorf("generation: generator run: %w", err)
	}

	artifacts, err := collectArtifacts(dir)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "service.generation", "generator.run",
		slog.String("status", "ok"),
		slog.String("job_id", req.JobID),
		slog.Int("artifacts", len(artifacts)),
		slog.Duration("duration", logger.Took(start)),
	)
	return artifacts, nil
}

// collectArtifacts returns every PDF the generator left in the job folder,
// the main result first.
func collectArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("generation: read job dir: %w", err)
	}
	var artifacts []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pdf" {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if e.Name() == resultFile {
			artifacts = append([]string{p}, artifacts...)
			continue
		}
		artifacts = append(artifacts, p)
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("generation: generator produced no pdf in %s", dir)
	}
	return artifacts, nil
}
