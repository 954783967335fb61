package middleware

import "net/http"

// MaxBodySize rejects declared bodies larger than n with 413 and caps
// the bytes a handler can read.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > n {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request_too_large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
