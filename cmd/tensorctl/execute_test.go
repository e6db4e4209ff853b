package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("tensorctl %v: %v", args, err)
	}
	return strings.TrimSpace(out.String())
}

// Mirrors spec.md §8 scenario 1.
func TestRearrange_TransposeMatrix(t *testing.T) {
	got := run(t, "rearrange", "--data", "[[1,2],[3,4]]", "--pattern", "h w -> w h")
	want := `[[1,3],[2,4]]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Mirrors spec.md §8 scenario 3.
func TestReduce_SumRows(t *testing.T) {
	got := run(t, "reduce", "--data", "[[1,2,3],[4,5,6]]", "--pattern", "b c -> b", "--op", "sum")
	want := `[6,15]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Mirrors spec.md §8 scenario 4.
func TestRepeat_Interleave(t *testing.T) {
	got := run(t, "repeat", "--data", "[1,2,3]", "--pattern", "w -> (w w2)", "--axes", "w2=2")
	want := `[1,1,2,2,3,3]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Mirrors spec.md §8 scenario 5.
func TestMatMul_2x3By3x4(t *testing.T) {
	got := run(t, "matmul",
		"--a", "[[1,2,3],[4,5,6]]",
		"--b", "[[7,8,9,10],[11,12,13,14],[15,16,17,18]]")
	want := `[[74,80,86,92],[173,188,203,218]]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBatch_AppliesStepsInSequence(t *testing.T) {
	steps := "- op: rearrange\n" +
		"  pattern: 'h w -> w h'\n" +
		"- op: reduce\n" +
		"  pattern: 'w h -> w'\n" +
		"  reduce_op: sum\n"
	path := filepath.Join(t.TempDir(), "steps.yaml")
	if err := os.WriteFile(path, []byte(steps), 0o644); err != nil {
		t.Fatal(err)
	}
	got := run(t, "batch", "--data", "[[1,2],[3,4]]", "--pattern-file", path)
	want := `[4,6]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRearrange_MissingData_Errors(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"rearrange", "--pattern", "h w -> w h"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for missing required --data flag")
	}
}
