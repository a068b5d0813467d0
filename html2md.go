// Package html2md converts HTML pages into Markdown documents, harvesting
// the images they reference and optionally rendering a front-matter preamble
// from values found in the page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., html/, http/, rod/).
package html2md
