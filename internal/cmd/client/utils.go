package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rzbill/lodex/internal/catalog"
	transports "github.com/rzbill/lodex/internal/cmd/client/transports"
)

// grpcAddrFromEnv returns the gRPC server address from LODEX_GRPC or a default.
func grpcAddrFromEnv() string {
	if addr := os.Getenv("LODEX_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:50051"
}

// apiURLFromEnv returns the HTTP API base URL from LODEX_HTTP or a default.
func apiURLFromEnv() string {
	if v := os.Getenv("LODEX_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

func collectionFromEnv() string {
	if v := os.Getenv("LODEX_COLLECTION"); v != "" {
		return v
	}
	return "default"
}

func validTransport(t string) error {
	switch t {
	case "grpc", "http":
		return nil
	}
	return fmt.Errorf("invalid --transport %q; use grpc|http", t)
}

// openTransport returns the read transport selected by the flags.
func openTransport(o *rootOptions) (transports.ItemsTransport, error) {
	if o.transport == "http" {
		return transports.NewHTTPTransport(o.apiURL, o.collection, httpClient()), nil
	}
	return transports.DialGrpc(o.grpcAddr, o.collection)
}

// admin returns the HTTP transport used for bulk mutations.
func admin(o *rootOptions) *transports.HTTPTransport {
	return transports.NewHTTPTransport(o.apiURL, o.collection, httpClient())
}

func httpClient() *http.Client { return &http.Client{Timeout: 30 * time.Second} }

// combineFilter joins an explicit CEL filter with a name search.
func combineFilter(filter, search string) string {
	sf := catalog.SearchFilter(search)
	switch {
	case filter == "":
		return sf
	case sf == "":
		return filter
	}
	return "(" + filter + ") && " + sf
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
