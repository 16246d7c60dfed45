package render

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/pipeline"
	"ImgOSINT/pkg/vision"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestPrinterTags(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Info("one %d", 1)
	p.Success("two")
	p.Warning("three")
	p.Error("four")
	p.Alert("five")

	want := "[*] one 1\n[+] two\n[!] three\n[-] four\n[!!!] five\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestStegoObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStegoObserver(NewPrinter(&buf))

	obs.ProbeStarted("strings")
	obs.ProbeFinished(models.ProbeResult{Stage: "strings", Status: models.ProbeNoSignal, Output: "No strings found."})
	obs.ProbeStarted("zsteg")
	obs.ProbeFinished(models.ProbeResult{Stage: "zsteg", Status: models.ProbeToolUnavailable, Output: "zsteg not installed; skipping."})
	obs.RecoveryStarted(models.ModeWordlist, "output.bin")
	obs.Heartbeat(500)

	want := strings.Join([]string{
		"",
		"[+] Checking for printable strings (first 20 lines):",
		"No strings found.",
		"",
		"[+] Running zsteg (PNG LSB analysis):",
		"[!] zsteg not installed; skipping.",
		"",
		"[+] Steghide extraction to: output.bin",
		"[*] Brute forcing with wordlist",
		"[*] …tried 500 passwords",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRecoveryVerdicts(t *testing.T) {
	tests := []struct {
		res  models.RecoveryResult
		want string
	}{
		{
			models.RecoveryResult{Verdict: models.RecoverySucceeded, Message: "Password found: letmein", ArtifactPath: "output.bin"},
			"[!!!] Password found: letmein\n[+] Saved: output.bin\n",
		},
		{
			models.RecoveryResult{Verdict: models.RecoveryNotAttempted, Message: "extraction not attempted"},
			"[*] extraction not attempted\n",
		},
		{
			models.RecoveryResult{Verdict: models.RecoveryFailed, Mode: models.ModeEmpty, Message: "empty failed"},
			"[*] empty failed\n",
		},
		{
			models.RecoveryResult{Verdict: models.RecoveryFailed, Mode: models.ModePassphrase, Message: "Password failed."},
			"[-] Password failed.\n",
		},
		{
			models.RecoveryResult{Verdict: models.RecoveryToolUnavailable, Message: "steghide not installed"},
			"[!] steghide not installed\n",
		},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewPrinter(&buf).Recovery(tt.res)
		if buf.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.res.Verdict, buf.String(), tt.want)
		}
	}
}

func TestStegoReport_Full(t *testing.T) {
	var buf bytes.Buffer
	report := &models.AnalysisReport{
		Probes: []models.ProbeResult{
			{Stage: "binwalk", Status: models.ProbeSignalFound, Output: "0  0x0  JPEG"},
		},
		Recovery: models.RecoveryResult{Verdict: models.RecoveryExhausted, Message: "No working password in wordlist (tried 3)."},
		Message:  pipeline.CompleteMessage,
	}

	NewPrinter(&buf).StegoReport(report, false)

	out := buf.String()
	for _, want := range []string{
		"[+] Running binwalk:\n0  0x0  JPEG\n",
		"[-] No working password in wordlist (tried 3).\n",
		"[!] 1 of 1 stages reported a signal\n",
		"[+] Stego analysis complete.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestExif(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Exif(&models.ExifReport{Message: "No EXIF metadata found"})
	if buf.String() != "[-] No EXIF metadata found!\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	NewPrinter(&buf).Exif(&models.ExifReport{Tags: []models.ExifTag{{Name: "Make", Value: "Canon"}}})
	if buf.String() != "[+] EXIF Data Found:\nMake: Canon\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestVision(t *testing.T) {
	var buf bytes.Buffer
	r := &models.VisionReport{Target: "a.png", Width: 2, Height: 3, Hashes: &models.ImageHashes{Average: "00ff"}}
	r.Complete(vision.SectionHashes)
	r.Complete(vision.SectionOCR)
	r.Skip(vision.SectionObjects, "no model")

	NewPrinter(&buf).Vision(r)

	out := buf.String()
	for _, want := range []string{"aHash: 00ff", "=== Extracted Text (OCR) ===\n[-] No text detected", "[!] objects skipped: no model"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Object Detection") {
		t.Errorf("skipped section rendered:\n%s", out)
	}
}

func TestBatchSummary(t *testing.T) {
	signal := &models.AnalysisReport{Target: "b.png", Probes: []models.ProbeResult{{Status: models.ProbeSignalFound}}}
	results := []pipeline.BatchResult{
		{Target: "a.jpg", Report: &models.AnalysisReport{Target: "a.jpg"}},
		{Target: "b.png", Report: signal},
		{Target: "c.jpg", Report: &models.AnalysisReport{Target: "c.jpg", Recovery: models.RecoveryResult{Verdict: models.RecoverySucceeded, ArtifactPath: "out-1.bin"}}},
		{Target: "d.jpg", Err: errors.New("E_FILE_NOT_FOUND: file not found: d.jpg")},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).BatchSummary(results)

	out := buf.String()
	for _, want := range []string{
		"Total files analyzed: 4\n",
		"[+] Clean files: 1\n",
		"[!] Files with signals: 1\n- b.png (1 of 1 stages)\n",
		"[!!!] Payloads recovered: 1\n- c.jpg -> out-1.bin\n",
		"[-] Files that could not be analyzed: 1\n- d.jpg: E_FILE_NOT_FOUND",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
