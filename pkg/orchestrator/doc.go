// Package orchestrator wires the loader, normalizer, session and renderers
// into a single request: load a raw form document, open its edit session and
// render the resolved view.
package orchestrator
