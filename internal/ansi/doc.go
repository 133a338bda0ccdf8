// Package ansi converts strings carrying ANSI SGR escape sequences into
// styled text runs.
//
// Styling is keyed off the literal code between "ESC[" and "m", not a
// numeric decode of SGR parameters. Only a fixed palette is recognized:
//
//	1 bold    3 italic    4 underline    9 strikethrough    0 reset
//	30-37, 90-97     foreground colors
//	40-47, 100-107   background colors
//
// Dim (2), blink (5), reverse (7) and hidden (8) are accepted and stripped
// without styling. Compound parameters such as "1;31" are stripped too but
// add no style. Escapes that do not match the pattern are plain text.
//
// Parse is a pure function and safe for concurrent use.
package ansi
