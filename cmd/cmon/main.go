// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/cmon/cmd/cmon/cmd"
)

func main() {
	cmd.Execute()
}
