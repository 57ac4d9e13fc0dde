// Package printing turns business documents into PDF files.
//
// Documents are rendered from html/template sources by a TemplateEngine and
// converted to PDF by a PDFRenderer. ChromedpRenderer drives a headless
// Chrome through the DevTools protocol, either launched locally or reached
// through a remote debugging URL.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(ChromedpConfigFrom(cfg.PDF, logger))
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	docs, err := NewContractDocumentRenderer(NewTemplateEngine(), renderer)
//	doc, err := docs.Render(ctx, view)
package printing
