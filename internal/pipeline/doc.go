// Package pipeline owns the encode -> corrupt -> decode round trip.
//
// Ownership boundary:
// - the current message and error mask
// - recompute on explicit triggers (input change, randomize, clear)
// - collapsing codec and text failures into one decode outcome
//
// Mask length policy:
// - resize (default): truncate or zero-extend when the encoded length changes
// - regenerate: redraw at the last randomize probability on length change
package pipeline
