package client

import (
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every client command.
type rootOptions struct {
	apiURL     string
	grpcAddr   string
	collection string
	transport  string
}

// NewRoot constructs the root Cobra command for the lodex client. It
// registers the item commands and the terminal browser.
func NewRoot() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lodex",
		Short:         "Bucketed range-query browser and server",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.apiURL, "api-url", apiURLFromEnv(), "HTTP API base URL (LODEX_HTTP)")
	pf.StringVar(&opts.grpcAddr, "grpc-addr", grpcAddrFromEnv(), "gRPC server address (LODEX_GRPC)")
	pf.StringVarP(&opts.collection, "collection", "c", collectionFromEnv(), "Collection name")
	pf.StringVar(&opts.transport, "transport", "grpc", "Read transport: grpc|http")

	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return validTransport(opts.transport)
	}

	root.AddCommand(
		newSeedCommand(opts),
		newClearCommand(opts),
		newCountCommand(opts),
		newQueryCommand(opts),
		newHealthCommand(opts),
		newBrowseCommand(opts),
	)
	return root
}
