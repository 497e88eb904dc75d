package config

// Per-tool ConfigSets. Each set owns the logical binary name and the
// default argument list for one extractor family. Argument overrides are
// whitespace-split; an explicitly empty override clears the defaults.

// WgetConfig configures the wget and warc extractors.
type WgetConfig struct {
	Binary      string
	DefaultArgs []string
	ExtraArgs   []string
	TimeoutSec  int
}

// NewWgetConfig constructs the wget set from overrides.
func NewWgetConfig(v Values) (*WgetConfig, error) {
	timeout, err := v.Int("WGET_TIMEOUT", 60)
	if err != nil {
		return nil, err
	}
	return &WgetConfig{
		Binary: v.String("WGET_BINARY", "wget"),
		DefaultArgs: v.Args("WGET_ARGS", []string{
			"--no-check-certificate",
			"--adjust-extension",
			"--convert-links",
			"--compression=auto",
			"--no-parent",
		}),
		ExtraArgs:  v.Args("WGET_EXTRA_ARGS", nil),
		TimeoutSec: timeout,
	}, nil
}

// ChromeConfig configures the chrome-based extractors (pdf, screenshot, dom).
type ChromeConfig struct {
	Binary      string
	DefaultArgs []string
	ExtraArgs   []string
}

// NewChromeConfig constructs the chrome set from overrides.
func NewChromeConfig(v Values) (*ChromeConfig, error) {
	return &ChromeConfig{
		Binary: v.String("CHROME_BINARY", "chrome"),
		DefaultArgs: v.Args("CHROME_ARGS", []string{
			"--headless=new",
			"--disable-gpu",
			"--no-sandbox",
			"--hide-scrollbars",
		}),
		ExtraArgs: v.Args("CHROME_EXTRA_ARGS", nil),
	}, nil
}

// MediaConfig configures the media extractor (yt-dlp). The feature flag is
// a soft group: enabling media with an empty binary name downgrades to
// disabled rather than failing the load.
type MediaConfig struct {
	Enabled     bool
	Binary      string
	MaxSize     string
	DefaultArgs []string
	ExtraArgs   []string
}

// NewMediaConfig constructs the media set from overrides.
func NewMediaConfig(v Values, logger Logger) (*MediaConfig, error) {
	enabled, err := v.Bool("SAVE_MEDIA", true)
	if err != nil {
		return nil, err
	}

	c := &MediaConfig{
		Enabled: enabled,
		Binary:  v.String("MEDIA_BINARY", "yt-dlp"),
		MaxSize: v.String("MEDIA_MAX_SIZE", "750m"),
		DefaultArgs: v.Args("MEDIA_ARGS", []string{
			"--write-thumbnail",
			"--no-call-home",
			"--write-sub",
			"--all-subs",
			"--write-auto-sub",
			"--convert-subs=srt",
		}),
		ExtraArgs: v.Args("MEDIA_EXTRA_ARGS", nil),
	}

	c.Enabled, err = CheckGroup("media", c.Enabled, SeveritySoft, logger,
		Requirement{Field: "MEDIA_BINARY", Value: c.Binary},
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// PlaywrightConfig configures the playwright installer provider.
type PlaywrightConfig struct {
	Binary string

	// BrowsersDir overrides the version-namespaced browser cache
	// directory. Empty means the provider picks the OS default
	// (~/Library/Caches/ms-playwright on macOS, ~/.cache/ms-playwright
	// elsewhere). PLAYWRIGHT_BROWSERS_PATH matches the upstream
	// playwright environment variable.
	BrowsersDir string
}

// NewPlaywrightConfig constructs the playwright set from overrides.
func NewPlaywrightConfig(v Values) (*PlaywrightConfig, error) {
	return &PlaywrightConfig{
		Binary:      v.String("PLAYWRIGHT_BINARY", "playwright"),
		BrowsersDir: v.String("PLAYWRIGHT_BROWSERS_PATH", ""),
	}, nil
}
