// Package fontbuild hands the staged emote set to an external font compiler.
//
// The compiler receives the manifest path and the output font path as its
// last two arguments. Everything the compiler does with them is outside this
// module.
package fontbuild
