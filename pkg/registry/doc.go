// Package registry assembles the final emote catalogue.
//
// Local records come first in scan order, followed by the remote records in
// fetch order (global, then each channel). The catalogue is exposed as the
// name,hex mapping written for users and as the manifest handed to the font
// compiler. Codepoint uniqueness follows from single-sequencer assignment
// and is not re-checked here.
package registry
