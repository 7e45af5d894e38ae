package main

import "taskflow-cli/cli"

func main() {
	cli.Execute()
}
