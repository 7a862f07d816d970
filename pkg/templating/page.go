package templating

import "github.com/Tjoosten/ApiGen/pkg/catalog"

// Page is the data passed to a template when a page is rendered.
type Page struct {
	// Name is the qualified name of the element, namespace or package the
	// page documents. It is empty for the index page.
	Name string
	// Element is the class, constant or function the page documents.
	Element catalog.Element
	// Members lists the contents of a namespace or package page.
	Members catalog.Members
	// Source is the file contents shown on source pages.
	Source string

	Catalog    *catalog.Catalog
	Namespaces []string
	Packages   []string
	Config     TemplateConfig
}

// NewPage returns a Page for el with the catalog listings filled in.
func (tm *TemplateManager) NewPage(name string, el catalog.Element) *Page {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return &Page{
		Name:       name,
		Element:    el,
		Catalog:    tm.catalog,
		Namespaces: tm.catalog.Namespaces(),
		Packages:   tm.catalog.Packages(),
		Config:     *tm.config,
	}
}
