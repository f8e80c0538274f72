package schema

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/api"
	"github.com/brimdata/pqjson/cli/inputflags"
	"github.com/brimdata/pqjson/cmd/pq2json/root"
	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/charm"
)

var Cmd = &charm.Spec{
	Name:  "schema",
	Usage: "schema [options] file|S3-object|URL|-",
	Short: "print the schema of a Parquet file",
	Long: `
The schema command prints the schema of a Parquet input as seen by the
chosen decoder, in Parquet message syntax.  With -json, the schema is
printed as a JSON object with a "fields" array of name, kind, repetition
and, for groups, nested fields.`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	json       bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "print the schema as JSON")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("pq2json schema: a single input must be specified (- for stdin)")
	}
	engine := c.Engine()
	s := c.inputFlags.NewStatsReaders(ctx, engine, args)[0]
	input, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}
	fields, err := convert.Schema(ctx, input, c.inputFlags.Decoder)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Path, err)
	}
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(api.SchemaResponse{Fields: fields, Message: pqjson.String(fields)})
	}
	_, err = fmt.Println(pqjson.String(fields))
	return err
}
