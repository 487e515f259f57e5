// Package protein fetches protein metadata and predicted structures and
// shows them on a structure widget.
//
// Client talks to a protein API (such as the one served by internal/api),
// AlphaFold and UniProt are the upstream services that API aggregates, and
// Fetcher ties a client to a Page and a Widget the way the browser popup
// does: metadata first, then the model.
package protein
