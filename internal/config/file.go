package config

// File represents the structure of the .coloringbook configuration file.
// Every field is optional; only the keys present in the file override the
// defaults. Pointers distinguish "absent" from an explicit false or zero.
type File struct {
	InputDir    *string `yaml:"input_dir,omitempty"`
	OutputDir   *string `yaml:"output_dir,omitempty"`
	ExportsDir  *string `yaml:"exports_dir,omitempty"`
	LogsDir     *string `yaml:"logs_dir,omitempty"`
	DBDir       *string `yaml:"db_dir,omitempty"`
	Concurrency *int    `yaml:"concurrency,omitempty"`

	Transform TransformFile `yaml:"transform,omitempty"`
	Book      BookFile      `yaml:"book,omitempty"`
	Generate  GenerateFile  `yaml:"generate,omitempty"`
	Cover     CoverFile     `yaml:"cover,omitempty"`
}

// TransformFile is the transform section of the configuration file.
type TransformFile struct {
	Threshold     *int    `yaml:"threshold,omitempty"`
	ThickenRadius *int    `yaml:"thicken_radius,omitempty"`
	TrimMargins   *bool   `yaml:"trim_margins,omitempty"`
	TrimOrder     *string `yaml:"trim_order,omitempty"`
	DetectEdges   *bool   `yaml:"detect_edges,omitempty"`
	Resize        *string `yaml:"resize,omitempty"`
	DPI           *int    `yaml:"dpi,omitempty"`
}

// BookFile is the book section of the configuration file.
type BookFile struct {
	Paper   *string `yaml:"paper,omitempty"`
	DPI     *int    `yaml:"dpi,omitempty"`
	Bleed   *string `yaml:"bleed,omitempty"`
	Count   *int    `yaml:"count,omitempty"`
	Shuffle *bool   `yaml:"shuffle,omitempty"`
	Seed    *uint64 `yaml:"seed,omitempty"`
}

// GenerateFile is the generate section of the configuration file.
type GenerateFile struct {
	Model             *string `yaml:"model,omitempty"`
	Size              *string `yaml:"size,omitempty"`
	Count             *int    `yaml:"count,omitempty"`
	MaxConcurrency    *int    `yaml:"max_concurrency,omitempty"`
	Attempts          *int    `yaml:"attempts,omitempty"`
	RequestsPerMinute *int    `yaml:"requests_per_minute,omitempty"`
}

// CoverFile is the cover section of the configuration file.
type CoverFile struct {
	Brand *string `yaml:"brand,omitempty"`
	Style *string `yaml:"style,omitempty"`
	Mode  *string `yaml:"mode,omitempty"`
	Model *string `yaml:"model,omitempty"`
	Size  *string `yaml:"size,omitempty"`
	DPI   *int    `yaml:"dpi,omitempty"`
}

// ApplyTo overlays the values present in the file onto cfg.
// A malformed resize value is reported rather than silently ignored.
func (f *File) ApplyTo(cfg *Config) error {
	set(&cfg.InputDir, f.InputDir)
	set(&cfg.OutputDir, f.OutputDir)
	set(&cfg.ExportsDir, f.ExportsDir)
	set(&cfg.LogsDir, f.LogsDir)
	set(&cfg.DBDir, f.DBDir)
	set(&cfg.Concurrency, f.Concurrency)

	t := f.Transform
	set(&cfg.Transform.Threshold, t.Threshold)
	set(&cfg.Transform.ThickenRadius, t.ThickenRadius)
	set(&cfg.Transform.TrimMargins, t.TrimMargins)
	set(&cfg.Transform.DetectEdges, t.DetectEdges)
	set(&cfg.Transform.DPI, t.DPI)
	if t.TrimOrder != nil {
		cfg.Transform.TrimOrder = TrimOrder(*t.TrimOrder)
	}
	if t.Resize != nil {
		w, h, err := ParseSize(*t.Resize)
		if err != nil {
			return err
		}
		cfg.Transform.TargetWidth, cfg.Transform.TargetHeight = w, h
	}

	b := f.Book
	set(&cfg.Book.Paper, b.Paper)
	set(&cfg.Book.DPI, b.DPI)
	set(&cfg.Book.Bleed, b.Bleed)
	set(&cfg.Book.Count, b.Count)
	set(&cfg.Book.Shuffle, b.Shuffle)
	set(&cfg.Book.Seed, b.Seed)

	g := f.Generate
	set(&cfg.Generate.Model, g.Model)
	set(&cfg.Generate.Size, g.Size)
	set(&cfg.Generate.Count, g.Count)
	set(&cfg.Generate.MaxConcurrency, g.MaxConcurrency)
	set(&cfg.Generate.Attempts, g.Attempts)
	set(&cfg.Generate.RequestsPerMinute, g.RequestsPerMinute)

	c := f.Cover
	set(&cfg.Cover.Brand, c.Brand)
	set(&cfg.Cover.Style, c.Style)
	set(&cfg.Cover.Mode, c.Mode)
	set(&cfg.Cover.Model, c.Model)
	set(&cfg.Cover.Size, c.Size)
	set(&cfg.Cover.DPI, c.DPI)

	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
