package config

import (
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The directory names mirror the layout of a coloring-book project: raw
// inputs, the pool of finished pages, assembled books and run logs all live
// side by side under the working directory.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "coloringbook"

	DefaultInputDir   = "input"
	DefaultOutputDir  = "output"
	DefaultExportsDir = "exports"
	DefaultLogsDir    = "logs"

	// DefaultPaper is the KDP trim size used when none is given.
	DefaultPaper = "letter"

	// DefaultBleed disables bleed. KDP only needs it for artwork that runs
	// off the page edge.
	DefaultBleed = "none"

	// DefaultGenerateModel lets the generator pick the preferred model and
	// fall back when the account lacks access.
	DefaultGenerateModel = "auto"

	// DefaultGenerateSize is a size every image model accepts.
	DefaultGenerateSize = "1024x1024"

	DefaultGenerateCount = 10

	// DefaultGenerateConcurrency keeps parallel generation requests low;
	// image endpoints rate-limit aggressively.
	DefaultGenerateConcurrency = 3

	// DefaultAttempts is the number of tries per generated image.
	DefaultAttempts = 3

	// DefaultRequestsPerMinute throttles generation calls. 0 disables throttling.
	DefaultRequestsPerMinute = 30

	DefaultCoverBrand = "Coloring Explorers"
	DefaultCoverStyle = "playful"
	DefaultCoverMode  = "light"
	DefaultCoverModel = "dall-e-3"
	DefaultCoverSize  = "1536x1024"

	// maxAutoConcurrency caps the derived worker count. Page transforms are
	// memory-heavy at print resolution.
	maxAutoConcurrency = 8
)

// Book holds the defaults for book assembly.
type Book struct {
	Paper   string
	DPI     int
	Bleed   string
	Count   int
	Shuffle bool
	Seed    uint64
}

// Generate holds the settings of the image generation collaborator.
type Generate struct {
	Model             string
	Size              string
	Count             int
	MaxConcurrency    int
	Attempts          int
	RequestsPerMinute int
	SkipProcess       bool
	Debug             bool
}

// Cover holds the settings of the cover command.
type Cover struct {
	Brand string
	Style string
	Mode  string
	Model string
	Size  string
	DPI   int
}

// Config holds all configuration options for coloringbook.
// It is populated from defaults, then the YAML file, then CLI flags, and is
// passed through the application rather than kept in global state.
//
// Design decision: The top level stays flat like a typical CLI config, but
// the settings of each command live in their own sub-struct. The commands
// share directories and logging, and little else.
type Config struct {
	// InputDir holds raw or generated source images.
	InputDir string

	// OutputDir is the page pool: every exported coloring page lands here.
	OutputDir string

	// ExportsDir receives assembled PDFs and covers.
	ExportsDir string

	// LogsDir receives run logs and book manifests.
	LogsDir string

	// Transform configures the page pipeline.
	Transform Transform

	// Concurrency is the number of images transformed at once.
	// 0 derives it from GOMAXPROCS.
	Concurrency int

	Book     Book
	Generate Generate
	Cover    Cover

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is an explicit path to the YAML file.
	// If empty, .coloringbook is searched in the working and home directories.
	ConfigFilePath string

	// DBDir is where the SQLite ledger lives. Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records exported pages and books in the ledger.
	SaveToDB bool

	// JSONReport and MarkdownReport select the summary format; both false
	// means plain text. They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the summary to a file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero (threshold, DPI, canvas size).
func NewConfig() *Config {
	return &Config{
		InputDir:   DefaultInputDir,
		OutputDir:  DefaultOutputDir,
		ExportsDir: DefaultExportsDir,
		LogsDir:    DefaultLogsDir,
		Transform:  DefaultTransform(),
		Book: Book{
			Paper: DefaultPaper,
			DPI:   DefaultDPI,
			Bleed: DefaultBleed,
		},
		Generate: Generate{
			Model:             DefaultGenerateModel,
			Size:              DefaultGenerateSize,
			Count:             DefaultGenerateCount,
			MaxConcurrency:    DefaultGenerateConcurrency,
			Attempts:          DefaultAttempts,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
		Cover: Cover{
			Brand: DefaultCoverBrand,
			Style: DefaultCoverStyle,
			Mode:  DefaultCoverMode,
			Model: DefaultCoverModel,
			Size:  DefaultCoverSize,
			DPI:   DefaultDPI,
		},
		DBDir:    XDGDataDir(),
		SaveToDB: true,
	}
}

// XDGDataDir returns the XDG data directory for coloringbook.
// On Linux: ~/.local/share/coloringbook
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for coloringbook.
// On Linux: ~/.config/coloringbook
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// CoversDir returns the directory cover images are written to.
func (c *Config) CoversDir() string {
	return filepath.Join(c.ExportsDir, "covers")
}

// Workers returns the effective transform concurrency.
// An explicit Concurrency wins; otherwise half of GOMAXPROCS clamped to [1, 8].
func (c *Config) Workers() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return ResolveWorkers(runtime.GOMAXPROCS(0))
}

// ResolveWorkers derives a worker count from the number of usable CPUs.
func ResolveWorkers(procs int) int {
	return max(1, min(procs/2, maxAutoConcurrency))
}

// Validate checks if the configuration is valid.
// It returns the first error found rather than collecting all of them,
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	for _, dir := range []string{c.InputDir, c.OutputDir, c.ExportsDir, c.LogsDir} {
		if dir == "" {
			return ErrEmptyDirectory
		}
	}

	if err := c.Transform.Validate(); err != nil {
		return err
	}

	if c.Concurrency < 0 || c.Generate.MaxConcurrency < 0 {
		return ErrInvalidConcurrency
	}

	if c.Book.DPI <= 0 || c.Cover.DPI <= 0 {
		return ErrInvalidDPI
	}

	if c.Generate.Count <= 0 {
		return ErrInvalidGenerateCount
	}

	if c.Generate.Attempts <= 0 {
		return ErrInvalidAttempts
	}

	if c.Generate.RequestsPerMinute < 0 {
		return ErrInvalidRateLimit
	}

	if _, _, err := ParseSize(c.Generate.Size); err != nil {
		return err
	}

	if _, _, err := ParseSize(c.Cover.Size); err != nil {
		return err
	}

	if c.Cover.Mode != "light" && c.Cover.Mode != "dark" {
		return ErrInvalidCoverMode
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
