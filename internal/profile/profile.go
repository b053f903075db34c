package profile

import "sort"

// Profile defines image processing parameters for a target platform.
type Profile struct {
	Name      string
	Widths    []int    // target widths for resize
	MaxHeight int      // optional height bound applied with each width; 0 = none
	Formats   []string // output formats in priority order
	Quality   int      // encoding quality 1-100
	Retina    bool     // generate 2x variants for retina
	// PassOrder is the lanczos pass order name ("auto", "horizontal-first",
	// "vertical-first"). Empty means auto.
	PassOrder string
}

// Built-in profiles.
var profiles = map[string]Profile{
	"telegram-webview": {
		Name:    "telegram-webview",
		Widths:  []int{320, 640, 960, 1280},
		Formats: []string{"webp", "jpeg"}, // avif added when encoder available
		Quality: 82,
		Retina:  true,
	},
	"telegram-webview-hq": {
		Name:    "telegram-webview-hq",
		Widths:  []int{320, 640, 960, 1280, 1920},
		Formats: []string{"avif", "webp", "jpeg"},
		Quality: 85,
		Retina:  true,
	},
	"minimal": {
		Name:    "minimal",
		Widths:  []int{320, 640},
		Formats: []string{"webp", "jpeg"},
		Quality: 78,
		Retina:  false,
	},
	// thumbnail matches Pillow's Image.thumbnail output byte for byte on
	// the resampling side: rows are always resampled first.
	"thumbnail": {
		Name:      "thumbnail",
		Widths:    []int{128, 256},
		MaxHeight: 256,
		Formats:   []string{"webp", "jpeg"},
		Quality:   75,
		Retina:    false,
		PassOrder: "horizontal-first",
	},
}

// Get returns a profile by name. Falls back to telegram-webview if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["telegram-webview"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EffectiveWidths returns all widths including retina variants.
func (p Profile) EffectiveWidths(originalWidth int) []int {
	seen := map[int]bool{}
	var result []int

	for _, w := range p.Widths {
		if w > originalWidth {
			continue // don't upscale
		}
		if !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
		if p.Retina {
			w2 := w * 2
			if w2 <= originalWidth && !seen[w2] {
				seen[w2] = true
				result = append(result, w2)
			}
		}
	}

	// Always include original width if not already present
	// (for cases where original is smaller than smallest target).
	if len(result) == 0 && originalWidth > 0 {
		result = append(result, originalWidth)
	}

	return result
}

// BoxHeight returns the height bound for a variant of the given width. A
// retina variant gets twice the profile's MaxHeight.
func (p Profile) BoxHeight(width int) int {
	if p.MaxHeight <= 0 {
		return 0
	}
	if p.Retina {
		for _, w := range p.Widths {
			if width == 2*w && !contains(p.Widths, width) {
				return 2 * p.MaxHeight
			}
		}
	}
	return p.MaxHeight
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
