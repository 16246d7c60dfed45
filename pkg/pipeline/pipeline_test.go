package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ImgOSINT/pkg/config"
	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/runner/runnertest"
)

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// fakeTools answers the probes with nothing and lets steghide recover a
// payload for secret.
func fakeTools(secret string) *runnertest.Fake {
	return runnertest.New().
		Respond("strings", runner.Result{Stdout: "JFIF\n"}).
		Respond("grep", runner.Result{}).
		Respond("sh", runner.Result{Stdout: "JFIF\n"}).
		Respond("binwalk", runner.Result{}).
		Respond("zsteg", runner.Result{}).
		Handle("steghide", func(_ context.Context, cmd runner.Command) (runner.Result, error) {
			if argValue(cmd.Args, "-p") != secret {
				return runner.Result{ExitCode: 1, Stderr: "steghide: could not extract any data with that passphrase!"}, nil
			}
			return runner.Result{}, os.WriteFile(argValue(cmd.Args, "-xf"), []byte("payload of "+argValue(cmd.Args, "-sf")), 0o644)
		})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type eventLog struct{ events []string }

func (l *eventLog) ProbeStarted(stage string) { l.events = append(l.events, "start "+stage) }
func (l *eventLog) ProbeFinished(r models.ProbeResult) {
	l.events = append(l.events, fmt.Sprintf("finish %s %s", r.Stage, r.Status))
}
func (l *eventLog) RecoveryStarted(mode models.RecoveryMode, _ string) {
	l.events = append(l.events, "recover "+string(mode))
}
func (l *eventLog) Heartbeat(tried int) { l.events = append(l.events, fmt.Sprintf("heartbeat %d", tried)) }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Recovery.HeartbeatInterval = 2
	return cfg
}

func TestAnalyze_MissingTarget(t *testing.T) {
	fake := fakeTools("pw")
	c := NewDefault(fake, testConfig())

	_, err := c.Analyze(context.Background(), Request{Target: filepath.Join(t.TempDir(), "nope.jpg")}, nil)
	if apperrors.GetCode(err) != apperrors.EFileNotFound {
		t.Errorf("error = %v, want E_FILE_NOT_FOUND", err)
	}

	_, err = c.Analyze(context.Background(), Request{Target: t.TempDir()}, nil)
	if apperrors.GetCode(err) != apperrors.EFileUnreadable {
		t.Errorf("error = %v, want E_FILE_UNREADABLE", err)
	}

	if len(fake.Calls()) != 0 {
		t.Errorf("tools ran for a missing target: %d calls", len(fake.Calls()))
	}
}

func TestAnalyze_JPEGWithWordlist(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "suspect.jpg", "\xff\xd8\xff\xe0JFIF")
	wordlist := writeFile(t, dir, "words.txt", "a\nb\nc\nletmein\nd\n")
	out := filepath.Join(dir, "output.bin")

	log := &eventLog{}
	report, err := NewDefault(fakeTools("letmein"), testConfig()).Analyze(context.Background(), Request{
		Target:     target,
		Wordlist:   wordlist,
		OutputPath: out,
	}, log)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"start strings", "finish strings no-signal",
		"start headers", "finish headers signal-found",
		"start binwalk", "finish binwalk no-signal",
		"start zsteg", "finish zsteg not-applicable",
		"recover wordlist",
		"heartbeat 2",
	}
	if diff := cmp.Diff(want, log.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if !report.Eligible || report.Recovery.Verdict != models.RecoverySucceeded {
		t.Errorf("eligible = %v verdict = %s", report.Eligible, report.Recovery.Verdict)
	}
	if report.Recovery.Attempts != 4 || report.Recovery.ArtifactPath != out {
		t.Errorf("recovery = %+v", report.Recovery)
	}
	if report.Format != "jpeg" || report.Message != CompleteMessage || report.SignalCount() != 1 {
		t.Errorf("format = %q message = %q signals = %d", report.Format, report.Message, report.SignalCount())
	}
}

func TestAnalyze_PNGIsNotEligible(t *testing.T) {
	fake := fakeTools("")
	target := writeFile(t, t.TempDir(), "image.png", "\x89PNG\r\n\x1a\n")

	report, err := NewDefault(fake, testConfig()).Analyze(context.Background(), Request{Target: target}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if report.Eligible || report.Recovery.Verdict != models.RecoveryNotAttempted {
		t.Errorf("eligible = %v verdict = %s", report.Eligible, report.Recovery.Verdict)
	}
	if len(report.Probes) != 4 {
		t.Errorf("got %d probes, want the full battery", len(report.Probes))
	}
	if p, _ := report.Probe("zsteg"); p.Status != models.ProbeNoSignal {
		t.Errorf("zsteg status = %s", p.Status)
	}
	if fake.CallsTo("steghide") != 0 {
		t.Error("steghide ran on a PNG")
	}
}

func TestAnalyze_UniqueOutput(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "a.bmp", "BM")
	c := NewDefault(fakeTools("pw"), testConfig())
	req := Request{Target: target, Passphrase: "pw", OutputPath: filepath.Join(dir, "output.bin"), UniqueOutput: true}

	first, err := c.Analyze(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Analyze(context.Background(), req, nil)
	if err != nil {
		t.Fatal(err)
	}

	a, b := first.Recovery.ArtifactPath, second.Recovery.ArtifactPath
	if a == "" || a == b || a == req.OutputPath {
		t.Errorf("artifact paths %q and %q should be distinct fresh names", a, b)
	}
	if filepath.Dir(a) != dir || filepath.Ext(a) != ".bin" {
		t.Errorf("artifact %q not allocated next to the configured output", a)
	}
}

func TestAnalyzeBatch_SeparateArtifacts(t *testing.T) {
	dir := t.TempDir()
	var targets []string
	for i := 0; i < 5; i++ {
		targets = append(targets, writeFile(t, dir, fmt.Sprintf("img%d.jpg", i), "\xff\xd8"))
	}
	targets = append(targets, filepath.Join(dir, "missing.jpg"))

	done := 0
	results := NewDefault(fakeTools("pw"), testConfig()).AnalyzeBatch(context.Background(), targets,
		Request{Passphrase: "pw", OutputPath: filepath.Join(dir, "output.bin")}, 3,
		func(BatchResult) { done++ })

	if done != len(targets) {
		t.Errorf("onDone called %d times, want %d", done, len(targets))
	}
	seen := map[string]bool{}
	for i, res := range results[:5] {
		if res.Target != targets[i] || res.Err != nil {
			t.Fatalf("result %d = %+v", i, res)
		}
		path := res.Report.Recovery.ArtifactPath
		if seen[path] {
			t.Errorf("artifact %s shared between targets", path)
		}
		seen[path] = true
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "payload of "+targets[i] {
			t.Errorf("artifact %s holds %q", path, data)
		}
	}
	if apperrors.GetCode(results[5].Err) != apperrors.EFileNotFound {
		t.Errorf("missing target error = %v", results[5].Err)
	}
}
