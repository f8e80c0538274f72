package anyio

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio"
	"github.com/brimdata/pqjson/zio/arrowio"
	"github.com/brimdata/pqjson/zio/parquetgoio"
	"github.com/brimdata/pqjson/zio/parquetio"
	"golang.org/x/exp/slices"
)

const DefaultDecoder = "fraugster"

// Decoders lists the names accepted by ReaderOpts.Decoder.
var Decoders = []string{"fraugster", "parquet-go", "arrow"}

func lookupDecoder(src *storage.ByteSource, name string) (zio.Decoder, error) {
	switch name {
	case "", "fraugster":
		return parquetio.NewReader(src)
	case "parquet-go":
		return parquetgoio.NewReader(src)
	case "arrow":
		return arrowio.NewReader(src)
	}
	return nil, fmt.Errorf("no such decoder: %q", name)
}

// CheckDecoder returns an error if name is not a known decoder.  The error
// suggests a decoder when name looks like a misspelling of one.
func CheckDecoder(name string) error {
	if name == "" || slices.Contains(Decoders, name) {
		return nil
	}
	for _, d := range Decoders {
		if levenshtein.ComputeDistance(name, d) <= 2 {
			return fmt.Errorf("no such decoder: %q (did you mean %q?)", name, d)
		}
	}
	return fmt.Errorf("no such decoder: %q", name)
}
