package middleware

import "net/http"

// CORS answers preflight requests and sets permissive headers for
// browser-based dashboards. Origins are echoed back rather than wildcarded
// so credentialed requests keep working.
func CORS(next http.Handler) http.Handler {
	const allowedMethods = "GET,POST,PATCH,PUT,DELETE,OPTIONS"
	const allowedHeaders = "Accept,Authorization,Content-Type,X-Trace-ID"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
