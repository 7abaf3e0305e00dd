// internal/server/framing.go
package server

import "net/http"

// FramedMessage is the only content served to a framed request.
const FramedMessage = "For security reasons the appliance monitor doesn't work in an iframe."

// denyFraming refuses to render inside a frame. Every response forbids
// framing; a request that declares a frame destination gets the static
// refusal and never reaches the monitor.
func denyFraming(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "frame-ancestors 'none'")

		switch r.Header.Get("Sec-Fetch-Dest") {
		case "iframe", "frame", "embed", "object":
			h.Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(FramedMessage))
			return
		}

		next.ServeHTTP(w, r)
	})
}
