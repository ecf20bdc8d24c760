package http

import (
	"io"
	"net/http"
)

const defaultNotFoundHTML = `<!doctype html>
<html lang=en>
<title>404 Not Found</title>
<h1>Not Found</h1>
<p>The requested URL was not found on the server.</p>
`

func writeDefaultNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, defaultNotFoundHTML)
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeDefaultNotFound(w)
}
