// Package association decides which hangers belong to which pipes.
//
// A hanger is first resolved to a Kind from its category and type name
// (see KindTable). Clamp and portal hangers are then tested against a
// shrunk "probe" box around the pipe using only bounding-box geometry:
//
//   - clamp: the hanger's longest axis (its antenna) is collapsed to the
//     interaction thickness and re-centred on the pipe axis.
//   - portal: the hanger's shortest axis is treated as a thin wall the
//     pipe passes through.
package association
