package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body. Used by the probe endpoints; pages are
// rendered by the web package.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// SeeOther redirects after a successful form post.
func SeeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
