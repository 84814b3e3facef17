package funnelbuilder

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JsonPrint writes v as indented JSON, prefixed with tag when one is given.
func JsonPrint(w io.Writer, tag string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%s: error marshaling: %v\n", tag, err)
		return
	}
	if tag == "" {
		fmt.Fprintln(w, string(b))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", tag, string(b))
}

// ParseAuthorization splits an Authorization header into scheme and credentials.
func ParseAuthorization(header string) (string, string, error) {
	scheme, credentials, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || scheme == "" {
		return "", "", fmt.Errorf("invalid authorization header")
	}
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return "", "", fmt.Errorf("empty credentials")
	}
	return scheme, credentials, nil
}
