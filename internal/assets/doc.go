// Package assets provides the book theme: stylesheets, HTML templates and
// scripts.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in theme compiled into the binary
//	    ├── FilesystemLoader  - theme directory from the book config
//	    └── AssetResolver     - directory first, embedded fallback
//
// A theme directory only needs the files it changes; everything else comes
// from the embedded theme.
//
// # Directory Structure
//
//	{theme}/
//	├── styles/
//	│   ├── book.css       # site stylesheet
//	│   └── print.css      # PDF stylesheet
//	├── templates/
//	│   ├── page.html      # html/template for one site page
//	│   ├── cover.html     # PDF cover, ends with <span data-cover-end></span>
//	│   └── print.html     # PDF document body
//	└── scripts/
//	    └── book.js        # sidebar behavior
//
// # Security
//
// Asset names are validated and FilesystemLoader resolves symlinks to keep
// reads inside the theme directory.
package assets
