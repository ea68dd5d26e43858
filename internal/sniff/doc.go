// Package sniff binds the doc comment checks to declaration anchors.
//
// A Runner walks a token stream once, in file order, and hands every anchor token
// (class-likes, named functions, constants, class properties and the file open tag)
// to the sniffs registered for its kind. Each visit locates the doc comment afresh;
// nothing is cached between anchors, so a pass over a stream that an earlier fix
// already rewrote never sees stale positions.
package sniff
