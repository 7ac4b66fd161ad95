// Package model defines the normalized form consumed by the overlay, session
// and presentation layers. A raw document holds a `sections` mapping; each
// section carries `title`, `tooltip`, `order`, `layout`, `bgColor` and a
// `fields` mapping. A field entry is either a single field object or a
// sequence of group items, and group items flatten into fields with ids of the
// form `{key}.{index}.{subKey}` and a `{key}.{index}` GroupID. Declared types
// are read from `interface.type` and anything outside text, boolean, select
// and date becomes text. Entries that cannot be read are skipped and reported
// through Form.Diagnostics rather than failing the build.
package model
