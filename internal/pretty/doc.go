// Package pretty is the default value formatter for captured log values.
//
// It renders values as indented JSON with github.com/TylerBrock/colorjson.
// Colored output uses github.com/fatih/color attributes that are forced on,
// so the escape codes are present regardless of the process's terminal; the
// log store decides whether to keep a plain copy as well.
//
// Default colors:
//
//	keys     white     (37)
//	strings  green     (32)
//	bools    yellow    (33)
//	numbers  cyan      (36)
//	null     dark gray (90)
//
// All of these codes are understood by the ansi package.
package pretty
