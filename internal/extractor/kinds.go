package extractor

import (
	"github.com/warden-archive/warden/internal/binary"
	"github.com/warden-archive/warden/internal/config"
)

// The built-in extractor kinds. Each constructor binds one tool ConfigSet
// to a binary; the set is extensible, callers can register their own
// CommandExtractors alongside these.

// NewWget creates the wget extractor: a plain recursive page fetch.
func NewWget(bin *binary.Binary, cfg *config.WgetConfig) (*CommandExtractor, error) {
	return New("wget", bin, cfg.DefaultArgs, Options{ExtraArgs: cfg.ExtraArgs})
}

// NewWarc creates the warc extractor: the same wget binary writing a WARC
// record alongside the fetch.
func NewWarc(bin *binary.Binary, cfg *config.WgetConfig) (*CommandExtractor, error) {
	defaults := append([]string{"--warc-file=warc", "--warc-cdx"}, cfg.DefaultArgs...)
	return New("warc", bin, defaults, Options{ExtraArgs: cfg.ExtraArgs})
}

// NewMedia creates the media extractor (yt-dlp). A disabled MediaConfig
// (explicitly, or auto-downgraded by validation) gates it off rather than
// failing construction.
func NewMedia(bin *binary.Binary, cfg *config.MediaConfig) (*CommandExtractor, error) {
	defaults := append([]string{"--max-filesize", cfg.MaxSize}, cfg.DefaultArgs...)
	return New("media", bin, defaults, Options{
		ExtraArgs: cfg.ExtraArgs,
		Disabled:  !cfg.Enabled,
	})
}

// NewPDF creates the pdf extractor: headless chrome printing the page.
func NewPDF(bin *binary.Binary, cfg *config.ChromeConfig) (*CommandExtractor, error) {
	defaults := append([]string{"--print-to-pdf"}, cfg.DefaultArgs...)
	return New("pdf", bin, defaults, Options{
		ExtraArgs:          cfg.ExtraArgs,
		PreCreateOutputDir: true,
	})
}

// NewScreenshot creates the screenshot extractor: headless chrome
// capturing a viewport image.
func NewScreenshot(bin *binary.Binary, cfg *config.ChromeConfig) (*CommandExtractor, error) {
	defaults := append([]string{"--screenshot", "--window-size=1440,2000"}, cfg.DefaultArgs...)
	return New("screenshot", bin, defaults, Options{
		ExtraArgs:          cfg.ExtraArgs,
		PreCreateOutputDir: true,
	})
}

// NewDOM creates the dom extractor: headless chrome dumping the rendered
// DOM as HTML.
func NewDOM(bin *binary.Binary, cfg *config.ChromeConfig) (*CommandExtractor, error) {
	defaults := append([]string{"--dump-dom"}, cfg.DefaultArgs...)
	return New("dom", bin, defaults, Options{
		ExtraArgs:          cfg.ExtraArgs,
		PreCreateOutputDir: true,
	})
}
