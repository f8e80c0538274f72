package main

import (
	"fmt"
	"os"

	"github.com/brimdata/pqjson/cmd/pq2json/convert"
	"github.com/brimdata/pqjson/cmd/pq2json/root"
	"github.com/brimdata/pqjson/cmd/pq2json/route"
	"github.com/brimdata/pqjson/cmd/pq2json/schema"
	"github.com/brimdata/pqjson/cmd/pq2json/serve"
	"github.com/brimdata/pqjson/pkg/charm"
)

func main() {
	pq2json := root.Pq2json
	pq2json.Add(convert.Cmd)
	pq2json.Add(schema.Cmd)
	pq2json.Add(route.Cmd)
	pq2json.Add(serve.Cmd)
	pq2json.Add(charm.Help)
	if err := pq2json.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
