/*
Package templating renders API documentation pages with html/template.

A TemplateManager loads full templates and partials from a directory and
exposes a library of helpers to them: URL builders for every kind of catalog
element, link formatting for references written in doc comments, docblock
formatting through the markup package, annotation filtering and ordering,
and cache-busting versions for static files. Templates are reloaded with
Refresh, or automatically with Watch.

Helpers never fail a render because of a dangling reference: anything that
does not resolve is printed as escaped text.
*/
package templating
