package assets

// Layout is one resume design: an html/template source and its stylesheet.
type Layout struct {
	Name     string // identifier (directory name)
	Template string // layout.html content
	Style    string // style.css content
}

// Names of the built-in assets.
const (
	DefaultLayoutName = "professional"
	BaseStyleName     = "base"
)

// Files that make up a layout directory.
const (
	layoutTemplateFile = "layout.html"
	layoutStyleFile    = "style.css"
)
