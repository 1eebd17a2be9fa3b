package generation

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stickpick/stickpick/internal/pipeline"
)

func TestNewRunnerRequiresCommand(t *testing.T) {
	if _, err := NewRunner(Config{OutputDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestCollectArtifactsOrdersResultFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"preview.pdf", "result.pdf", "input.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	artifacts, err := collectArtifacts(dir)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("artifacts = %v", artifacts)
	}
	if filepath.Base(artifacts[0]) != "result.pdf" {
		t.Fatalf("result.pdf must come first, got %v", artifacts)
	}
}

func TestCollectArtifactsFailsOnEmptyFolder(t *testing.T) {
	if _, err := collectArtifacts(t.TempDir()); err == nil {
		t.Fatal("expected error when the generator produced nothing")
	}
}

func TestRenderWritesInputAndRequiresArtifacts(t *testing.T) {
	out := t.TempDir()
	r, err := NewRunner(Config{Command: "true", OutputDir: out, TimeoutSec: 5})
	if err != nil {
		t.Fatalf("runner: %v", err)
	}

	req := &pipeline.Request{
		JobID: "alice_job",
		Image: image.NewRGBA(image.Rect(0, 0, 2, 2)),
	}
	_, err = r.Render(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "no pdf") {
		t.Fatalf("expected missing-artifact error, got %v", err)
	}

	input := filepath.Join(out, "alice_job", "input.png")
	if _, statErr := os.Stat(input); statErr != nil {
		t.Fatalf("input image not written: %v", statErr)
	}
}
