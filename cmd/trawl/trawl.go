// Package trawlcmder
package trawlcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/harborworks/trawl/cmd/trawl/ask"
	checkcmder "github.com/harborworks/trawl/cmd/trawl/check"
	deletecmder "github.com/harborworks/trawl/cmd/trawl/delete"
	initcmder "github.com/harborworks/trawl/cmd/trawl/init"
	previewcmder "github.com/harborworks/trawl/cmd/trawl/preview"
	searchcmder "github.com/harborworks/trawl/cmd/trawl/search"
	uploadcmder "github.com/harborworks/trawl/cmd/trawl/upload"
	versioncmder "github.com/harborworks/trawl/cmd/version"
)

const trawlLongDesc string = `Trawl ingests scraped documents into a search
index and serves semantic retrieval over them.

Typical flow:
  trawl init       Write a default trawl.toml
  trawl upload     Ingest the configured input file
  trawl check      Verify the index and count documents
  trawl search     Run an ad-hoc semantic search
  trawl ask        Answer a question grounded in the index`

const trawlShortDesc string = "Trawl - document ingestion and semantic retrieval"

func NewTrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trawl",
		Short: trawlShortDesc,
		Long:  trawlLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default trawl.toml)")

	// Add subcommands
	cmd.AddCommand(uploadcmder.NewUploadCmd())
	cmd.AddCommand(checkcmder.NewCheckCmd())
	cmd.AddCommand(previewcmder.NewPreviewCmd())
	cmd.AddCommand(deletecmder.NewDeleteCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
