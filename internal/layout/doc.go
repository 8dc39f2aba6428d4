// Package layout renders a resume into a standalone HTML document.
//
// A layout is an html/template plus a stylesheet, loaded through
// internal/assets. The shared base style, the layout style and the code
// highlighting classes are inlined into one <style> element so the page
// needs no external resources. Free-text fields (summary and descriptions)
// are Markdown and go through Goldmark with GFM; raw HTML in them is
// dropped.
package layout
