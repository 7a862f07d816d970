package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
	"github.com/Tjoosten/ApiGen/pkg/templating"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

// Template base names, completed with the configured template extension.
const (
	templateIndex     = "index"
	templateNamespace = "namespace"
	templatePackage   = "package"
	templateClass     = "class"
	templateConstant  = "constant"
	templateFunction  = "function"
	templateSource    = "source"
)

const indexFile = "index.html"

var generateDestination string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the documentation pages",
	Long: `Render one page per documented class, namespace, package, constant and
function, plus highlighted source pages and an index, into the destination
directory. Kinds without a template are skipped.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateDestination, "destination", "d", "",
		"Output directory (overrides template_config.destination)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup()
	if err != nil {
		return err
	}
	if generateDestination != "" {
		config.Templates.Destination = generateDestination
	}

	tm, err := newTemplateManager(cmd.Context(), config, logger)
	if err != nil {
		return err
	}

	g := NewGenerator(tm, config.Generator.SourceDir, logger)
	written, err := g.Generate(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("Documentation generated", "pages", written, "destination", config.Templates.Destination)
	return nil
}

// Generator renders the pages of a catalog with a TemplateManager.
type Generator struct {
	tm        *templating.TemplateManager
	sourceDir string
	logger    *slog.Logger

	config  templating.TemplateConfig
	urls    *templating.URLBuilder
	skipped map[string]bool
	written int
}

// NewGenerator creates a Generator. Source pages read the files named in
// the catalog relative to sourceDir.
func NewGenerator(tm *templating.TemplateManager, sourceDir string, logger *slog.Logger) *Generator {
	return &Generator{
		tm:        tm,
		sourceDir: sourceDir,
		logger:    logger,
	}
}

// Generate renders every page and returns the number of files written.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	g.config = g.tm.GetConfig()
	g.urls = g.tm.URLs()
	g.skipped = make(map[string]bool)
	g.written = 0

	if err := os.MkdirAll(g.config.Destination, 0755); err != nil {
		return 0, fmt.Errorf("failed to create destination: %w", err)
	}

	c := g.tm.Catalog()
	steps := []func(context.Context, *catalog.Catalog) error{
		g.generateIndex,
		g.generateNamespaces,
		g.generatePackages,
		g.generateClasses,
		g.generateConstants,
		g.generateFunctions,
		g.generateSources,
	}
	for _, step := range steps {
		if err := step(ctx, c); err != nil {
			return g.written, err
		}
	}
	return g.written, nil
}

func (g *Generator) generateIndex(ctx context.Context, _ *catalog.Catalog) error {
	return g.render(ctx, templateIndex, indexFile, g.tm.NewPage("", nil))
}

func (g *Generator) generateNamespaces(ctx context.Context, c *catalog.Catalog) error {
	for _, namespace := range c.Namespaces() {
		page := g.tm.NewPage(namespace, nil)
		page.Members = c.InNamespace(namespace)
		if err := g.render(ctx, templateNamespace, g.urls.NamespaceURL(namespace), page); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generatePackages(ctx context.Context, c *catalog.Catalog) error {
	if !g.config.Packages {
		return nil
	}
	for _, pkg := range c.Packages() {
		page := g.tm.NewPage(pkg, nil)
		page.Members = c.InPackage(pkg)
		if err := g.render(ctx, templatePackage, g.urls.PackageURL(pkg), page); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateClasses(ctx context.Context, c *catalog.Catalog) error {
	for _, class := range c.DocumentedClasses() {
		if err := g.render(ctx, templateClass, g.urls.ClassURL(class.Name), g.tm.NewPage(class.Name, class)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateConstants(ctx context.Context, c *catalog.Catalog) error {
	for _, constant := range c.Constants() {
		if err := g.render(ctx, templateConstant, g.urls.ConstantURL(constant), g.tm.NewPage(constant.Name, constant)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateFunctions(ctx context.Context, c *catalog.Catalog) error {
	for _, function := range c.Functions() {
		if err := g.render(ctx, templateFunction, g.urls.FunctionURL(function), g.tm.NewPage(function.Name, function)); err != nil {
			return err
		}
	}
	return nil
}

// generateSources renders the source page of every documented element
// that names a file. Elements sharing a page are rendered once.
func (g *Generator) generateSources(ctx context.Context, c *catalog.Catalog) error {
	var elements []catalog.Element
	for _, class := range c.DocumentedClasses() {
		elements = append(elements, class)
	}
	for _, constant := range c.Constants() {
		elements = append(elements, constant)
	}
	for _, function := range c.Functions() {
		elements = append(elements, function)
	}

	done := make(map[string]bool)
	for _, el := range elements {
		file := el.Info().File
		name := g.urls.SourceFile(el)
		if file == "" || done[name] {
			continue
		}
		done[name] = true

		source, err := os.ReadFile(filepath.Join(g.sourceDir, file))
		if err != nil {
			g.logger.Warn("Skipping source page, file not readable", "file", file, "error", err)
			continue
		}
		page := g.tm.NewPage(el.Info().Name, el)
		page.Source = string(source)
		if err = g.render(ctx, templateSource, name, page); err != nil {
			return err
		}
	}
	return nil
}

// render executes the template of kind into the file name below the
// destination. Kinds without a template are skipped with one warning.
func (g *Generator) render(ctx context.Context, kind, name string, page *templating.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmplName := kind + g.config.TemplateExt
	if !g.tm.HasTemplate(tmplName) {
		if !g.skipped[kind] {
			g.skipped[kind] = true
			g.logger.Warn("No template, skipping pages", "template", tmplName)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := g.tm.Execute(&buf, tmplName, page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	path := filepath.Join(g.config.Destination, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	g.written++
	g.logger.Debug("Page written", "file", name, "template", tmplName)
	return nil
}
