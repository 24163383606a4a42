package rowreader

import (
	"os"
	"strconv"

	"github.com/pippo1980/pbrowreader/wire"
)

// Config controls optional strictness behaviors. Group nesting is bounded
// generously rather than rejected; an undeclared enum number is rejected by
// default.
type Config struct {
	// RejectUnknownEnumNumber, when true (the default), turns an enum-kind
	// field's wire number into a CastError unless that number is declared
	// on the enum. When false the number passes through uninterpreted for
	// any numeric target, and only a String/Bytes target (which needs a
	// name) fails.
	RejectUnknownEnumNumber bool

	// MaxGroupNestingDepth bounds how many nested GROUP_START tags a
	// legacy group field may contain before the wire reader gives up with
	// a FormatError. Zero means wire.DefaultMaxGroupDepth.
	MaxGroupNestingDepth int
}

var defaultConfig = Config{RejectUnknownEnumNumber: true}

func init() {
	if v := os.Getenv("PBROWREADER_REJECT_UNKNOWN_ENUM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			defaultConfig.RejectUnknownEnumNumber = b
		}
	}
	if v := os.Getenv("PBROWREADER_MAX_GROUP_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			defaultConfig.MaxGroupNestingDepth = n
		}
	}
}

// SetDefaultConfig overrides the package-level default Config used by New
// when called without an explicit Config.
func SetDefaultConfig(c Config) { defaultConfig = c }

func (c Config) groupDepth() int {
	if c.MaxGroupNestingDepth > 0 {
		return c.MaxGroupNestingDepth
	}
	return wire.DefaultMaxGroupDepth
}
