package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// HTTPRequest snapshots the raw form of an HTTP request:
//
//	POST https://example.com/users
//	Accept: application/json
//	Content-Type: application/json
//
//	{"name":"Blob"}
//
// Headers are sorted by name and repeated values joined with ", ". A request
// without a URL shows "(null)". The body is read and then restored so the
// request can still be sent.
var HTTPRequest = NewStrategy(LinesFormat, rawRequest)

func rawRequest(req *http.Request) (string, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	url := "(null)"
	if req.URL != nil {
		url = req.URL.String()
	}

	lines := []string{method + " " + url}

	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		lines = append(lines, name+": "+strings.Join(req.Header[name], ", "))
	}

	body, err := requestBody(req)
	if err != nil {
		return "", err
	}
	if len(body) > 0 {
		lines = append(lines, "", string(body))
	}
	return strings.Join(lines, "\n"), nil
}

func requestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
