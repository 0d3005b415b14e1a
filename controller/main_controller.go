// Package controller holds the site's request handlers.
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cosmic-development/cosmic/core"
)

const HomepageTemplate = "main/index.html.twig"

// PageRenderer writes a rendered template as the response to r.
type PageRenderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, vars core.RenderContext)
}

// Page describes one route served by a controller.
type Page struct {
	Path     string
	Template string
	Context  core.RenderContext
}

type MainController struct {
	view PageRenderer
}

func NewMainController(view PageRenderer) *MainController {
	return &MainController{view: view}
}

// Routes registers the controller's handlers on r.
func (c *MainController) Routes(r chi.Router) {
	r.Get("/", c.Homepage)
}

func (c *MainController) Homepage(w http.ResponseWriter, r *http.Request) {
	c.view.Render(w, r, HomepageTemplate, homepageContext())
}

func (c *MainController) Pages() []Page {
	return []Page{
		{Path: "/", Template: HomepageTemplate, Context: homepageContext()},
	}
}

func homepageContext() core.RenderContext {
	return core.RenderContext{
		"name": "Raziel Rodrigues",
	}
}
