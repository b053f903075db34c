package manifest

// Manifest is the top-level output of an imgopt build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers   int    `json:"workers"`
	Strategy  string `json:"strategy"`   // resolved lanczos accumulation strategy
	PassOrder string `json:"pass_order"` // requested pass order policy
}

// Asset describes a single source image and all its generated variants.
type Asset struct {
	Original    OriginalInfo `json:"original"`
	Placeholder string       `json:"placeholder,omitempty"` // data URI of a tiny PNG preview
	AspectRatio float64      `json:"aspect_ratio"`          // width / height
	AvgColor    *[3]uint8    `json:"avg_color,omitempty"`   // [R,G,B] 0-255, optional
	Variants    []Variant    `json:"variants"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Variant is one encoded output of an asset at a specific size and format.
type Variant struct {
	Format   string    `json:"format"` // "avif", "webp", "jpeg", "png"
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Size     int64     `json:"size"` // bytes on disk
	Hash     string    `json:"hash"` // first 16 hex chars of xxhash64
	Path     string    `json:"path"` // relative to base_path
	Lossless bool      `json:"lossless,omitempty"`
	Resample *Resample `json:"resample,omitempty"` // nil when the variant is not resized
}

// Resample records how a variant's pixels were produced.
type Resample struct {
	Filter    string `json:"filter"`     // kernel name, e.g. "lanczos3"
	PassOrder string `json:"pass_order"` // executed passes, e.g. "horizontal,vertical"
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalVariants    int   `json:"total_variants"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // variants skipped (larger than original)
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
