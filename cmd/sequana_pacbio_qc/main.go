package main

import "github.com/sequana/pacbioqc/internal/cli"

func main() {
	cli.Execute()
}
