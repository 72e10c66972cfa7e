// Package dom provides a minimal document object model over parsed HTML.
//
// It wraps the node tree produced by golang.org/x/net/html with the small
// surface the binding engine needs: attribute access, class token surgery,
// and document-order traversal. It is not a general-purpose DOM; rendering,
// layout, and script integration are out of scope.
package dom
