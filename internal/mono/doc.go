// Package mono implements class monomorphization for Keel.
//
// A class declaration doubles as its constructor. The declaration itself is
// recorded as a Template; nothing is laid out until the constructor is
// called. Each call site carries a Signature (the positional argument types),
// and the engine resolves it to a Class: a concrete variant of the template
// specialized for that signature.
//
// # Signatures
//
// Only constructor parameters marked as signature-affecting participate in
// variant selection. Two signatures that agree on those positions resolve to
// the same Class even when the remaining argument types differ. A template's
// own placeholder datatype is compatible with any concrete variant of that
// template, which lets self-referential declarations (linked lists, trees)
// resolve before any variant exists.
//
// # Variants
//
// Variants are numbered densely per template in creation order. Every variant
// gets a hidden free-list member for the recycler; signature-created variants
// type it as an unsigned integer of the template's reference width, while the
// canonical default variant types it as the variant's own datatype.
//
// # Synthesized methods
//
// Template creation synthesizes a destructor next to the constructor. The
// default toString and dump methods are synthesized on demand per variant,
// from the variant's instantiated members.
//
// All registry state hangs off a Context; see NewContext.
package mono
