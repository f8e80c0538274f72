// Package units provides a byte-size value for flags and config files,
// written as "10MB" or "4GiB".
package units

import (
	"github.com/alecthomas/units"
	"github.com/dustin/go-humanize"
)

type Bytes int64

func (b *Bytes) Set(s string) error {
	n, err := units.ParseStrictBytes(s)
	if err != nil {
		return err
	}
	*b = Bytes(n)
	return nil
}

func (b Bytes) String() string {
	return units.Base2Bytes(b).String()
}

// Abbrev formats b for humans, as in "1.5 MiB".
func (b Bytes) Abbrev() string {
	return humanize.IBytes(uint64(b))
}

func (b *Bytes) UnmarshalText(text []byte) error {
	return b.Set(string(text))
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
