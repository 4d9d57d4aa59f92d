// Package extractors provides format-specific text extraction.
//
// Each subpackage implements driven.Extractor for one source format
// (PDF, DOCX, Markdown, plain text). The Registry in this package
// selects the extractor for a document by file extension with content
// sniffing as a tie-breaker; selection is a pure function of the
// document, never runtime type inspection.
package extractors
