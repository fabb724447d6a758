// Command gitbump bumps the version of a project.
package main

import "github.com/MyCarrier-DevOps/go-gitbump/cmd"

func main() {
	cmd.Execute()
}
