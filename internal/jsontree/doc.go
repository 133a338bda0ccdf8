// Package jsontree models arbitrary JSON values for display.
//
// # Values
//
// Value is an immutable sum type: null, bool, number, string, array or
// object. Numbers keep the text they were written with, so 1.50 renders as
// 1.50. Decode and FromValue never fail; anything that cannot be decoded or
// encoded becomes null.
//
// # Display tree
//
// Build turns a Value into a tree of Nodes. Object children are sorted by
// key and array children keep their order. Each node records its depth, a
// stable Path used as the key for fold state, and whether it is the last
// child of its parent.
//
// Lines flattens the tree into rows given the caller's fold state:
//
//	{
//	  "a": 2,
//	  "list": [ 3 ],     <- folded array with three elements
//	  "none": {},        <- empty composites never fold
//	  "z": "end"
//	}
//
// Fold state belongs to the caller. Every non-empty composite starts
// expanded.
//
// # Queries
//
// Query runs a JMESPath expression (github.com/jmespath/go-jmespath) over a
// Value and wraps the result back into a Value for display.
package jsontree
