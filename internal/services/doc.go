// package services contains the HTTP gateway to the remote todo API and
// typed wrappers for the auth and profile endpoints.
//
// The gateway is stateless: it reads the bearer token fresh for every
// authenticated call and never touches the session or the todo cache. Every
// failure is mapped to one of the sentinel categories in
// [github.com/desertthunder/tdx/internal/shared] and returned to the caller.
package services
