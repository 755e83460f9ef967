// package ui implements the interactive terminal frontend.
//
// The model is the navigator of the core: it holds rendering until the
// session controller resolves, then routes to the todo list for an
// authenticated session or a sign-in notice otherwise. All reads come from
// the todo store's snapshot; all writes go through its mutation operations.
package ui
