// Package normalize provides pure text canonicalization shared by the
// resolution components.
//
// Every comparison in the pipeline runs over the canonical forms produced
// here: lowercase single-spaced text, leading-zero-stripped card number
// numerators, and alphanumeric token streams. Catalog rows store these forms
// at write time; queries apply the same functions, so equality is plain
// string comparison everywhere else.
package normalize
