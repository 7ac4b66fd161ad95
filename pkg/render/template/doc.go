// Package template defines the engine contract presentation adapters render
// form views through. The pongo subpackage provides the default engine.
package template
