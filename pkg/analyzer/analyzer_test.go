package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ImgOSINT/pkg/config"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/runner/runnertest"
)

const binwalkEmpty = `
DECIMAL       HEXADECIMAL     DESCRIPTION
--------------------------------------------------------------------------------
`

const binwalkZip = `
DECIMAL       HEXADECIMAL     DESCRIPTION
--------------------------------------------------------------------------------
0             0x0             JPEG image data, JFIF standard 1.01
52019         0xCB33          Zip archive data, at least v2.0 to extract, name: secret.txt
52211         0xCBF3          End of Zip archive, footer length: 22
`

// cleanTools answers every tool with "nothing found".
func cleanTools() *runnertest.Fake {
	return runnertest.New().
		Respond("strings", runner.Result{}).
		Respond("grep", runner.Result{}).
		Respond("sh", runner.Result{ExitCode: 1}).
		Respond("binwalk", runner.Result{Stdout: binwalkEmpty}).
		Respond("zsteg", runner.Result{})
}

type recordingObserver struct {
	started  []string
	finished []models.ProbeResult
}

func (o *recordingObserver) ProbeStarted(stage string) { o.started = append(o.started, stage) }
func (o *recordingObserver) ProbeFinished(r models.ProbeResult) { o.finished = append(o.finished, r) }

func statuses(results []models.ProbeResult) map[string]models.ProbeStatus {
	m := make(map[string]models.ProbeStatus, len(results))
	for _, r := range results {
		m[r.Stage] = r.Status
	}
	return m
}

func TestDefaultBattery_OrderAndNames(t *testing.T) {
	b := newDefaultBattery(cleanTools(), config.Default(), "linux")
	want := []string{"strings", "headers", "binwalk", "zsteg"}
	if diff := cmp.Diff(want, b.Names()); diff != "" {
		t.Errorf("stage order mismatch (-want +got):\n%s", diff)
	}
}

func TestBattery_CleanFileReportsNoSignalEverywhere(t *testing.T) {
	b := newDefaultBattery(cleanTools(), config.Default(), "linux")
	obs := &recordingObserver{}

	results := b.Run(context.Background(), "/evidence/clean.png", obs)

	want := map[string]models.ProbeStatus{
		"strings": models.ProbeNoSignal,
		"headers": models.ProbeNoSignal,
		"binwalk": models.ProbeNoSignal,
		"zsteg":   models.ProbeNoSignal,
	}
	if diff := cmp.Diff(want, statuses(results)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}

	sentinels := []string{"No strings found.", "No embedded headers found.", "No signatures found.", "No hidden data found by zsteg."}
	for i, r := range results {
		if r.Output != sentinels[i] {
			t.Errorf("%s output = %q, want %q", r.Stage, r.Output, sentinels[i])
		}
	}
	if diff := cmp.Diff([]string{"strings", "headers", "binwalk", "zsteg"}, obs.started); diff != "" {
		t.Errorf("observer start order mismatch:\n%s", diff)
	}
	if len(obs.finished) != 4 {
		t.Errorf("observer saw %d finished stages, want 4", len(obs.finished))
	}
}

func TestBattery_ZstegNotApplicableForJPEG(t *testing.T) {
	fake := cleanTools()
	b := newDefaultBattery(fake, config.Default(), "linux")

	results := b.Run(context.Background(), "/evidence/photo.jpg", nil)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if results[3].Status != models.ProbeNotApplicable {
		t.Errorf("zsteg status = %s, want not-applicable", results[3].Status)
	}
	if fake.CallsTo("zsteg") != 0 {
		t.Error("zsteg should not run on a JPEG")
	}
}

func TestBattery_MissingToolsNeverAbort(t *testing.T) {
	fake := runnertest.New().
		Respond("binwalk", runner.Result{Stdout: binwalkZip})
	b := newDefaultBattery(fake, config.Default(), "linux")

	results := b.Run(context.Background(), "/evidence/image.png", nil)

	want := map[string]models.ProbeStatus{
		"strings": models.ProbeToolUnavailable,
		"headers": models.ProbeToolUnavailable,
		"binwalk": models.ProbeSignalFound,
		"zsteg":   models.ProbeToolUnavailable,
	}
	if diff := cmp.Diff(want, statuses(results)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if results[3].Output != "zsteg not installed; skipping." {
		t.Errorf("zsteg output = %q", results[3].Output)
	}
	if results[2].Detail != "3 signatures" {
		t.Errorf("binwalk detail = %q", results[2].Detail)
	}
}

func TestStringsProbe_FirstTwentyLines(t *testing.T) {
	var lines []string
	for i := 0; i < 35; i++ {
		lines = append(lines, fmt.Sprintf("line%02d", i))
	}
	fake := runnertest.New().Respond("strings", runner.Result{Stdout: strings.Join(lines, "\n") + "\n"})

	res := NewStringsProbe(fake, "strings", time.Second).Run(context.Background(), "x.jpg")

	if res.Status != models.ProbeNoSignal {
		t.Fatalf("status = %s", res.Status)
	}
	if got := strings.Split(res.Output, "\n"); len(got) != StringsPreviewLines || got[19] != "line19" {
		t.Errorf("output has %d lines, last %q", len(got), got[len(got)-1])
	}
	if res.Detail != "20 of 35 lines shown" {
		t.Errorf("detail = %q", res.Detail)
	}
	if calls := fake.Calls(); calls[0].Timeout != time.Second || calls[0].Args[0] != "x.jpg" {
		t.Errorf("unexpected command: %+v", calls[0])
	}
}

func TestBattery_PrintableTextInCleanFileIsNotASignal(t *testing.T) {
	fake := cleanTools().Respond("strings", runner.Result{Stdout: "JFIF\nsome text\n"})
	b := newDefaultBattery(fake, config.Default(), "linux")

	results := b.Run(context.Background(), "/evidence/clean.png", nil)

	if results[0].Stage != "strings" || results[0].Status != models.ProbeNoSignal {
		t.Fatalf("strings result = %+v", results[0])
	}
	if results[0].Output != "JFIF\nsome text" || results[0].Detail != "2 of 2 lines shown" {
		t.Errorf("output = %q detail = %q", results[0].Output, results[0].Detail)
	}
	report := &models.AnalysisReport{Probes: results}
	if n := report.SignalCount(); n != 0 {
		t.Errorf("signal count = %d, want 0", n)
	}
}

func TestProbe_TimeoutIsStageError(t *testing.T) {
	fake := runnertest.New().Handle("binwalk", func(context.Context, runner.Command) (runner.Result, error) {
		return runner.Result{}, fmt.Errorf("binwalk after 30s: %w", runner.ErrTimeout)
	})

	res := NewBinwalkProbe(fake, "binwalk", 30*time.Second).Run(context.Background(), "x.jpg")
	if res.Status != models.ProbeError {
		t.Errorf("status = %s, want error", res.Status)
	}
}

func TestHeaderProbe_CommandLinePerPlatform(t *testing.T) {
	tests := []struct {
		goos, filter, want string
	}{
		{"linux", "grep", `'strings' 'my photo.jpg' | 'grep' -iE 'JFIF|EXIF|PNG|ID3|PK'`},
		{"darwin", "grep", `'strings' 'my photo.jpg' | 'grep' -iE 'JFIF|EXIF|PNG|ID3|PK'`},
		{"windows", "findstr", `"strings" "my photo.jpg" | "findstr" /i "JFIF EXIF PNG ID3 PK"`},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p := NewHeaderProbe(nil, "strings", tt.filter, tt.goos, 0)
			if got := p.CommandLine("my photo.jpg"); got != tt.want {
				t.Errorf("CommandLine = %s\nwant          %s", got, tt.want)
			}
		})
	}
}

func TestHeaderProbe_Matches(t *testing.T) {
	fake := runnertest.New().
		Respond("strings", runner.Result{}).
		Respond("grep", runner.Result{}).
		Respond("sh", runner.Result{Stdout: "JFIF\nPK secret.txt\n"})

	res := NewHeaderProbe(fake, "strings", "grep", "linux", time.Second).Run(context.Background(), "a.jpg")

	if res.Status != models.ProbeSignalFound || res.Output != "JFIF\nPK secret.txt" {
		t.Errorf("got %s %q", res.Status, res.Output)
	}
}

func TestHeaderProbe_FilterFailure(t *testing.T) {
	fake := runnertest.New().
		Respond("strings", runner.Result{}).
		Respond("grep", runner.Result{}).
		Respond("sh", runner.Result{ExitCode: 2, Stderr: "grep: invalid option"})

	res := NewHeaderProbe(fake, "strings", "grep", "linux", time.Second).Run(context.Background(), "a.jpg")
	if res.Status != models.ProbeError {
		t.Errorf("status = %s, want error", res.Status)
	}
}

func TestSignatureRows(t *testing.T) {
	if got := signatureRows(binwalkEmpty); len(got) != 0 {
		t.Errorf("empty table produced rows: %v", got)
	}
	if got := signatureRows(binwalkZip); len(got) != 3 {
		t.Errorf("got %d rows, want 3", len(got))
	}
}
