package templating

import "github.com/Tjoosten/ApiGen/pkg/markup"

// Keys of TemplateConfig.Filenames.
const (
	FileNamespace = "namespace"
	FilePackage   = "package"
	FileClass     = "class"
	FileConstant  = "constant"
	FileFunction  = "function"
	FileSource    = "source"
)

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// Filenames maps an element kind to the pattern of its output file name.
	// Each pattern has a single %s placeholder replaced by the urlized name.
	Filenames map[string]string `json:"filenames" yaml:"filenames"`

	// AllowedHTML lists the tags that may appear as raw HTML in doc comments.
	AllowedHTML []string `json:"allowed_html" yaml:"allowed_html"`

	// Todo controls whether @todo annotations are shown.
	Todo bool `json:"todo" yaml:"todo"`

	// Packages controls whether @package and @subpackage annotations link to
	// package pages.
	Packages bool `json:"packages" yaml:"packages"`

	// Destination is the output directory. Static files are versioned with
	// the checksum of their copy in this directory.
	Destination string `json:"destination" yaml:"destination"`

	// ManualBase is the root URL of the language manual.
	ManualBase string `json:"manual_base" yaml:"manual_base"`

	// TemplateExt and PartialExt are the file suffixes of full templates and
	// of partials in the template directory.
	TemplateExt string `json:"template_ext" yaml:"template_ext"`
	PartialExt  string `json:"partial_ext" yaml:"partial_ext"`
}

// DefaultConfig returns a TemplateConfig with the stock file name patterns.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		Filenames: map[string]string{
			FileNamespace: "namespace-%s.html",
			FilePackage:   "package-%s.html",
			FileClass:     "class-%s.html",
			FileConstant:  "constant-%s.html",
			FileFunction:  "function-%s.html",
			FileSource:    "source-%s.html",
		},
		AllowedHTML: append([]string(nil), markup.DefaultAllowedHTML...),
		Todo:        false,
		Packages:    true,
		Destination: "api",
		ManualBase:  "http://php.net/manual",
		TemplateExt: ".tmpl.html",
		PartialExt:  ".part.html",
	}
}
