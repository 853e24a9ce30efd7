/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ByPassAuth    bool
	ServiceName   string
)

// Only registration happens at init. Parsing is left to the binary's main
// function so that test binaries can register their -test.* flags first.
func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "accept unsigned fake tokens instead of verifying against the identity provider. development only")
	flag.StringVar(&ServiceName, "service", APIServer, "name reported in log fields")
}
