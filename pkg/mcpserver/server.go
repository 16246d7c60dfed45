// Package mcpserver exposes the stego, EXIF and vision analyses as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"ImgOSINT/pkg/config"
	"ImgOSINT/pkg/exif"
	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/pipeline"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/vision"
)

// Version is reported in the MCP handshake.
var Version = "dev"

// Server wraps the MCP SDK server and the analyses behind its tools.
type Server struct {
	MCPServer *sdkmcp.Server

	cfg         *config.Config
	coordinator *pipeline.Coordinator
	vision      *vision.Analyzer
	log         *slog.Logger
}

// NewServer creates an MCP server with the analysis tools registered.
// External tools are invoked through r.
func NewServer(r runner.Runner, cfg *config.Config) *Server {
	s := &Server{
		cfg:         cfg,
		coordinator: pipeline.NewDefault(r, cfg),
		vision:      vision.New(r, cfg),
		log:         logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "imgosint", Version: Version},
		nil,
	)
	s.registerTools()
	return s
}

// Close releases resources held by the vision analyzer.
func (s *Server) Close() error {
	return s.vision.Close()
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "stego_analyze",
		Description: "Run the steganography probes (strings, headers, binwalk, zsteg) against a local file and try steghide recovery with a password, a wordlist, or the empty password.",
	}, s.handleStegoAnalyze)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "exif_extract",
		Description: "Read every EXIF tag from an image, including GPS position and capture time when present.",
	}, s.handleExifExtract)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "vision_analyze",
		Description: "Compute perceptual hashes, OCR text, error level analysis, LSB statistics and object detections for an image. With no sections selected, runs hashes, ocr and ela.",
	}, s.handleVisionAnalyze)
}

// --- Tool input/output types ---

type stegoAnalyzeInput struct {
	Path     string `json:"path" jsonschema:"local path of the file to analyze"`
	Password string `json:"password,omitempty" jsonschema:"steghide passphrase to try"`
	Wordlist string `json:"wordlist,omitempty" jsonschema:"path of a newline separated passphrase list"`
	Output   string `json:"output,omitempty" jsonschema:"where a recovered payload is written (default from config)"`

	WordlistEncoding string `json:"wordlist_encoding,omitempty" jsonschema:"raw (default) or latin1"`
}

type exifExtractInput struct {
	Path string `json:"path" jsonschema:"local path of the image"`
}

type visionAnalyzeInput struct {
	Path    string `json:"path" jsonschema:"local path of the image"`
	Hashes  bool   `json:"hashes,omitempty" jsonschema:"compute aHash, pHash and dHash"`
	OCR     bool   `json:"ocr,omitempty" jsonschema:"extract text with tesseract"`
	ELA     bool   `json:"ela,omitempty" jsonschema:"write an error level analysis image"`
	LSB     bool   `json:"lsb,omitempty" jsonschema:"compute LSB bit-plane statistics"`
	Objects bool   `json:"objects,omitempty" jsonschema:"run the ONNX object detector"`
	All     bool   `json:"all,omitempty" jsonschema:"run every section"`
}

func (in visionAnalyzeInput) options() vision.Options {
	if in.All {
		return vision.AllOptions()
	}
	opts := vision.Options{Hashes: in.Hashes, OCR: in.OCR, ELA: in.ELA, LSB: in.LSB, Objects: in.Objects}
	if !opts.Any() {
		return vision.DefaultOptions()
	}
	return opts
}

// --- Tool handlers ---

func (s *Server) handleStegoAnalyze(ctx context.Context, _ *sdkmcp.CallToolRequest, input stegoAnalyzeInput) (*sdkmcp.CallToolResult, *models.AnalysisReport, error) {
	if input.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	enc, err := filehandler.ParseWordlistEncoding(input.WordlistEncoding)
	if err != nil {
		return nil, nil, err
	}
	req := pipeline.Request{
		Target:       input.Path,
		Passphrase:   input.Password,
		Wordlist:     input.Wordlist,
		OutputPath:   input.Output,
		UniqueOutput: s.cfg.Recovery.UniqueOutput,

		WordlistEncoding: enc,
	}
	if req.OutputPath == "" {
		req.OutputPath = s.cfg.Recovery.OutputPath
	}

	report, err := s.coordinator.Analyze(ctx, req, nil)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("stego_analyze", "path", input.Path, "verdict", report.Recovery.Verdict)
	return nil, report, nil
}

func (s *Server) handleExifExtract(_ context.Context, _ *sdkmcp.CallToolRequest, input exifExtractInput) (*sdkmcp.CallToolResult, *models.ExifReport, error) {
	if input.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	report, err := exif.Extract(input.Path)
	if err != nil {
		return nil, nil, err
	}
	return nil, report, nil
}

func (s *Server) handleVisionAnalyze(ctx context.Context, _ *sdkmcp.CallToolRequest, input visionAnalyzeInput) (*sdkmcp.CallToolResult, *models.VisionReport, error) {
	if input.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	report, err := s.vision.Analyze(ctx, input.Path, input.options())
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("vision_analyze", "path", input.Path, "findings", len(report.Findings))
	return nil, report, nil
}
