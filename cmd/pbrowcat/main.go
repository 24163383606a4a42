// Command pbrowcat decodes a stream of length-prefixed protobuf messages
// into the columns named on the command line, against a schema compiled
// from .proto source. It exists to exercise package rowreader end to end
// from outside the test suite, the way protolite's sampleapp exercises its
// own marshal/unmarshal path.
package main

import (
	"github.com/pippo1980/pbrowreader/cmd/pbrowcat/cmd"
)

func main() {
	cmd.Execute()
}
