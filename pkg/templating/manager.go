package templating

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
	"github.com/Tjoosten/ApiGen/pkg/markup"
	"github.com/Tjoosten/ApiGen/pkg/resolver"
)

// TemplateManager is the central controller for the templating engine.
// It manages the template set, configuration, function map and the catalog
// the helpers resolve references against. It is responsible for loading,
// parsing, and executing templates in a concurrent-safe manner.
// All exported methods are concurrent-safe.
type TemplateManager struct {
	logger         *slog.Logger
	config         *TemplateConfig
	catalog        *catalog.Catalog
	resolver       *resolver.Resolver
	urls           *URLBuilder
	markup         *markup.Converter
	highlighter    Highlighter
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	templateDir    string
	mu             sync.RWMutex

	// versions caches the checksums of static files by path.
	versions   map[string]string
	versionsMu sync.Mutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// It loads the templates found in templateDir and resolves references
// against cat. It performs an initial Refresh to load all templates.
func NewTemplateManager(logger *slog.Logger, cat *catalog.Catalog, config *TemplateConfig, templateDir string) (*TemplateManager, error) {
	if cat == nil {
		cat = catalog.New()
	}
	tm := &TemplateManager{
		logger:      logger,
		templateDir: templateDir,
		highlighter: EscapeHighlighter{},
		versions:    make(map[string]string),
	}
	tm.setCatalog(cat)
	tm.setConfig(config)
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized", "dir", templateDir)
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// URLs (from funcs_urls.go)
		"packageUrl":   tm.urls.PackageURL,
		"namespaceUrl": tm.urls.NamespaceURL,
		"classUrl":     tm.classURL,
		"methodUrl":    tm.urls.MethodURL,
		"propertyUrl":  tm.urls.PropertyURL,
		"constantUrl":  tm.urls.ConstantURL,
		"functionUrl":  tm.urls.FunctionURL,
		"sourceUrl":    tm.sourceURL,
		"manualUrl":    tm.urls.ManualURL,
		"elementUrl":   tm.urls.ElementURL,

		// Names (from funcs_names.go)
		"packageName":      packageName,
		"subpackageName":   subpackageName,
		"namespaceLinks":   tm.namespaceLinks,
		"subnamespaceName": subnamespaceName,
		"typeLinks":        tm.typeLinks,
		"typeName":         typeName,
		"type":             valueType,

		// Doc comments (from funcs_docblock.go)
		"description":      tm.description,
		"shortDescription": tm.shortDescription,
		"longDescription":  tm.longDescription,
		"docblock":         tm.docblock,
		"docline":          tm.docline,
		"annotation":       tm.annotation,
		"annotationFilter": tm.annotationFilter,
		"annotationSort":   annotationSort,

		// References (from links.go)
		"resolveElement": tm.resolveElement,
		"resolveLink":    tm.resolveLinkHTML,
		"resolveLinks":   tm.resolveLinksHTML,

		// Source (from funcs_source.go)
		"staticFile":      tm.staticFile,
		"highlightSource": tm.highlightSource,
		"highlightValue":  tm.highlightValue,

		// Strings (from funcs_strings.go)
		"ucfirst":   ucfirst,
		"replaceRE": tm.replaceRE,
		"link":      link,
		"escape":    escape,

		// Logic & Control (from funcs_logic.go)
		"repeat": repeat,
		"list":   list,

		// Simple (from funcs_simple.go)
		"add":   add,
		"sub":   sub,
		"inc":   inc,
		"dec":   dec,
		"and":   and,
		"or":    or,
		"not":   not,
		"isSet": isSet,
	}
}

func (tm *TemplateManager) setConfig(config *TemplateConfig) {
	if config == nil {
		def := DefaultConfig()
		config = &def
	}
	tm.config = config
	if tm.urls == nil {
		tm.urls = NewURLBuilder(config)
	} else {
		// The function map holds method values bound to tm.urls.
		*tm.urls = *NewURLBuilder(config)
	}
	tm.markup = markup.New(config.AllowedHTML, markup.WithHighlighter(func(src string) string {
		return string(tm.highlighter.Highlight(src))
	}))

	tm.versionsMu.Lock()
	tm.versions = make(map[string]string)
	tm.versionsMu.Unlock()
}

func (tm *TemplateManager) setCatalog(cat *catalog.Catalog) {
	tm.catalog = cat
	tm.resolver = resolver.New(cat)
}

// SetConfig applies a new configuration to the TemplateManager. File name
// patterns, the HTML allow list and the annotation switches take effect for
// the next execution. Cached static file versions are dropped.
func (tm *TemplateManager) SetConfig(config *TemplateConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.setConfig(config)
}

// SetCatalog replaces the catalog that references are resolved against.
func (tm *TemplateManager) SetCatalog(cat *catalog.Catalog) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.setCatalog(cat)
}

// SetHighlighter replaces the source highlighter. A nil highlighter
// restores the escaping default.
func (tm *TemplateManager) SetHighlighter(h Highlighter) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if h == nil {
		h = EscapeHighlighter{}
	}
	tm.highlighter = h
}

// Catalog returns the catalog the manager resolves references against.
func (tm *TemplateManager) Catalog() *catalog.Catalog {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.catalog
}

// URLs returns the URL builder for the current configuration.
func (tm *TemplateManager) URLs() *URLBuilder {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	u := *tm.urls
	return &u
}

// Refresh reloads all templates and partials from the filesystem. This
// allows for updates to templates without restarting the application.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	templateExt, partialExt := tm.config.TemplateExt, tm.config.PartialExt
	if templateExt == "" {
		templateExt = DefaultConfig().TemplateExt
	}
	if partialExt == "" {
		partialExt = DefaultConfig().PartialExt
	}

	filePattern := filepath.Join(tm.templateDir, "*"+templateExt)
	tm.logger.Debug("Loading template files...", "pattern", filePattern)

	parsedFiles, err := template.New("").Funcs(tm.funcMap).ParseGlob(filePattern)
	var names []string
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse template files", "error", err)
			return fmt.Errorf("failed to parse template files: %w", err)
		}
		// No template files, so we have to create the object without any
		parsedFiles = template.New("").Funcs(tm.funcMap)
		names = []string{}
		tm.logger.Warn("No template files found matching pattern", "pattern", filePattern)
	} else {
		for _, t := range parsedFiles.Templates() {
			// The root template has no name and is never executed.
			if strings.HasSuffix(t.Name(), templateExt) {
				names = append(names, t.Name())
			}
		}
	}
	sort.Strings(names)

	filePattern = filepath.Join(tm.templateDir, "*"+partialExt)
	tm.logger.Debug("Loading partial files...", "pattern", filePattern)

	newParsedFiles, err := parsedFiles.ParseGlob(filePattern)
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse partial files", "error", err)
			return fmt.Errorf("failed to parse partial files: %w", err)
		}
		newParsedFiles = parsedFiles
	}

	tm.templates = newParsedFiles
	tm.templateNames = names
	tm.logger.Info("Loaded template and partial files", "count", len(newParsedFiles.Templates())-1) // Subtract one for the root template

	// Create a clean clone for string executions after all parsing is complete.
	tm.cleanTemplates, err = tm.templates.Clone()
	if err != nil {
		tm.logger.Error("failed to create a clean clone of templates", "error", err)
		return fmt.Errorf("failed to clone templates: %w", err)
	}

	return nil
}

// Execute renders a specific template by name, writing the output to the
// provided io.Writer. The data argument is passed to the template, usually a
// *Page.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templates.ExecuteTemplate(w, name, data)
}

// HasTemplate reports whether a full template or partial of that name is
// loaded.
func (tm *TemplateManager) HasTemplate(name string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templates.Lookup(name) != nil
}

// GetConfig returns a copy of the current configuration.
// This mainly exists for concurrency-safety reasons.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateNames returns the names of all loaded templates and partials.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	var names []string
	for _, t := range tm.templates.Templates() {
		// The root template has no name, we don't want to return it.
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return names
}

// GetPageTemplates returns the names of the full templates only.
func (tm *TemplateManager) GetPageTemplates() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return append([]string(nil), tm.templateNames...)
}

// GetTemplateDir returns the template dir that the TemplateManager uses.
func (tm *TemplateManager) GetTemplateDir() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templateDir
}

// ExecuteTemplateString parses and executes a raw template string using the
// manager's function map and partials. This is ideal for testing or
// previewing templates without saving them to disk.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	// Clone the clean, unexecuted template set to avoid race conditions and execution state issues.
	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}

	t, err := tempSet.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}

	return t.Execute(w, data)
}
