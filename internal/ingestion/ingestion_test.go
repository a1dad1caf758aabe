package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestAnalyzeDirectory_Success(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "Date,Close\n2024-01-01,101\n2024-01-02,103\n2024-01-03,105\n")
	writeFile(t, dir, "a.csv", "Date,Close,Volume\n2024-01-01,100\n2024-01-02,110,10\n")
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	reports, err := AnalyzeDirectory(context.Background(), dir, 2, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("want 2 reports got %d", len(reports))
	}
	if reports[0].File != "a.csv" || reports[1].File != "b.csv" {
		t.Fatalf("unexpected order: %s, %s", reports[0].File, reports[1].File)
	}
	if reports[0].Analysis.PercentageChange != 10 {
		t.Fatalf("a.csv pct=%v", reports[0].Analysis.PercentageChange)
	}
	if reports[1].Rows != 3 || reports[1].Analysis.Mean != 103 {
		t.Fatalf("b.csv unexpected: %+v", reports[1])
	}
}

func TestAnalyzeDirectory_Errors(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		window  int
		wantSub string
	}{
		{name: "no csv files", setup: func(t *testing.T, dir string) {}, window: 2, wantSub: "no .csv files"},
		{
			name: "invalid file fails batch",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "good.csv", "Date,Close\n2024-01-01,1\n")
				writeFile(t, dir, "bad.csv", "Date,Price\n2024-01-01,1\n")
			},
			window:  2,
			wantSub: "bad.csv",
		},
		{
			name: "invalid window",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "good.csv", "Date,Close\n2024-01-01,1\n")
			},
			window:  0,
			wantSub: "window",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			tc.setup(t, dir)
			_, err := AnalyzeDirectory(context.Background(), dir, tc.window, 2)
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected error containing %q, got %v", tc.wantSub, err)
			}
		})
	}
}

func TestAnalyzeDirectory_MissingDir(t *testing.T) {
	if _, err := AnalyzeDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), 2, 1); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestParallelism(t *testing.T) {
	want := runtime.NumCPU()
	if want > maxParallel {
		want = maxParallel
	}
	if got := parallelism(0); got != want {
		t.Fatalf("auto: want %d got %d", want, got)
	}
	if got := parallelism(3); got != 3 {
		t.Fatalf("explicit: got %d", got)
	}
	if got := parallelism(100); got != maxParallel {
		t.Fatalf("clamp: got %d", got)
	}
}
