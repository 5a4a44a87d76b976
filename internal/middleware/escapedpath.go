package middleware

import "net/http"

// RouteOnEscapedPath makes chi match routes against the escaped request path.
// chi prefers URL.RawPath, which net/http only fills in when the escaping is
// non-canonical, so a name like "Chess Club/Advanced" sent as
// "Chess%20Club%2FAdvanced" would otherwise be split at the decoded slash.
// Route parameters then arrive escaped and must be unescaped by the handler.
func RouteOnEscapedPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.RawPath = r.URL.EscapedPath()
		next.ServeHTTP(w, r)
	})
}
