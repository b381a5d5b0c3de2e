// Package screen captures the display and extracts its text with an OCR tool.
package screen

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"

	"lull/pkg/shell"
	"lull/pkg/util"
)

// Reader runs the screenshot command, which writes an image to {out}, then
// the OCR command, which reads {in} and prints text on stdout.
type Reader struct {
	ScreenshotCmd string
	OCRCmd        string

	run    shell.Runner
	tmpDir string
}

func NewReader(screenshotCmd, ocrCmd string) *Reader {
	return &Reader{
		ScreenshotCmd: screenshotCmd,
		OCRCmd:        ocrCmd,
		run:           shell.Exec,
	}
}

func (r *Reader) ReadScreen(ctx context.Context) (string, error) {
	img, err := os.CreateTemp(r.tmpDir, "lull-screen-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	path := img.Name()
	img.Close()
	defer os.Remove(path)

	if _, err := shell.Run(ctx, r.run, r.ScreenshotCmd, map[string]string{"out": path}); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	out, err := shell.Run(ctx, r.run, r.OCRCmd, map[string]string{"in": path})
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}

	text := util.NormalizeWhitespace(string(out))
	log.Debug("Read screen", "file", filepath.Base(path), "chars", len(text))
	return text, nil
}
