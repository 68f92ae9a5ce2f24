package observability

import (
	"fmt"
	"net/http"
	"strings"
)

// AppendServerTiming appends a metric to the Server-Timing response header.
func AppendServerTiming(w http.ResponseWriter, name string, durMs float64, desc string) {
	var b strings.Builder
	b.WriteString(name)
	if durMs > 0 {
		fmt.Fprintf(&b, ";dur=%.3f", durMs)
	}
	if desc != "" {
		fmt.Fprintf(&b, ";desc=%q", desc)
	}
	w.Header().Add("Server-Timing", b.String())
}
