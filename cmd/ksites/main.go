// cmd/ksites/main.go
package main

import (
	_ "go.uber.org/automaxprocs"

	"ksites/internal/appshell"
	"ksites/internal/cli"
)

func main() { appshell.Main(cli.Run) }
