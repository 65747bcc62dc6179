package formpredict

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formpredict/pkg/surfaces/web"
)

//go:embed models/*.json models/*.yaml
var embeddedModels embed.FS

// DemoModelsFS exposes the demonstration model artifacts bundled with the
// module, one per default task. They are served by the "embedded" backend.
func DemoModelsFS() fs.FS {
	sub, err := fs.Sub(embeddedModels, "models")
	if err != nil {
		return embeddedModels
	}
	return sub
}

// EmbeddedTemplates exposes the built-in web page templates so callers can
// reuse or extend them without importing the web surface directly.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// AssetsFS exposes the stylesheet served under /assets.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formpredict.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return web.AssetsFS()
}
