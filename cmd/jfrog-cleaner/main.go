package main

import "jfrog-cleaner/internal/cli"

func main() {
	cli.Execute()
}
