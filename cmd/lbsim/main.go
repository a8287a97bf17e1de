// lbsim - simulated cloud load balancer API server.
package main

import (
	"os"

	"github.com/getlbsim/lbsim/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
