package root

import (
	"flag"

	"github.com/brimdata/pqjson/cli"
	"github.com/brimdata/pqjson/pkg/charm"
	"github.com/brimdata/pqjson/pkg/storage"
)

var Pq2json = &charm.Spec{
	Name:  "pq2json",
	Usage: "pq2json <command> [options] [arguments...]",
	Short: "convert Parquet files to JSON",
	Long: `
pq2json reads Apache Parquet files and writes their rows as JSON, either
as one array of objects per file or as newline-delimited objects.  Files
may be converted directly, routed from a watched directory, or posted to
a conversion service.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cancel, err := c.Init()
	if err != nil {
		return err
	}
	defer cancel()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}

// Engine returns the storage engine commands read inputs from and write
// outputs to.
func (c *Command) Engine() *storage.Router {
	engine := storage.NewLocalEngine()
	h := storage.NewHTTPWithUserAgent(cli.UserAgent())
	engine.Set(storage.HTTPScheme, h)
	engine.Set(storage.HTTPSScheme, h)
	return engine
}
