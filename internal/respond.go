package internal

import (
	"encoding/json"
	"net/http"
)

// WriteDenied writes the error envelope from middleware that rejects a request
// before any resource handler runs. Kept here, below the transport package, so
// auth and tenant middleware can share it without an import cycle.
func WriteDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
