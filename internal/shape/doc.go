// Package shape computes the result shape of a GraphQL selection set: for
// every concrete object type that can appear at a position, the fields a
// response will carry, their nullability and optionality, and the shapes
// nested under link fields.
//
// # Resolution
//
// A selection set is resolved against the declared type of its position (the
// parent type):
//
//  1. The possible concrete types of the parent are computed. An object has
//     itself; an interface or union has its implementations or members, in
//     schema order.
//  2. Selections are partitioned into fields, inline fragments and fragment
//     spreads. Fields apply to every possible type. An inline fragment
//     applies to the possible types its type condition narrows to; a spread
//     is expanded into one usage per concrete type of the fragment's own type
//     condition and applies to the types both sides share.
//  3. Per concrete type, the collected fields are merged by response key.
//     Aliased and unaliased fields live in separate key spaces, so
//     `{ name: id  id }` yields two records. Repeated link fields merge their
//     sub-selections before the nested shape is resolved.
//  4. A parent with one possible type yields a single shape. Otherwise the
//     result is an alternation of one member per covered concrete type, plus
//     a synthetic empty member when some possible type is selected by
//     nothing. Members are never deduplicated.
//
// # Fragments
//
// Config.InlineFragmentTypes controls spreads. In inline mode a spread's
// fields are merged into the surrounding shape. In combine mode the shape
// keeps a FragmentRef per spread, and the renderer intersects the named
// fragment shape with the local fields.
//
// Fragment shapes are named after the fragment. When the type condition has
// a single possible type the name is unqualified (DogFieldsFragment);
// otherwise each variant is qualified with its concrete type
// (NodeFields_Dog_Fragment).
//
// # Directives
//
// @skip and @include with literal arguments are evaluated: excluded nodes do
// not contribute. With a variable argument the node is conditional and its
// fields become optional, or nullable when AvoidOptionalsAll is set.
//
// # Variables
//
// ResolveVariables translates operation variable definitions into
// InputShapes. Whether a variable is optional depends on its nullability,
// its default value and Config.AvoidOptionals.
//
// All functions are pure and safe for concurrent use on a shared Schema.
package shape
