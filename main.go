package main

import "github.com/crmkit/lead-management/cmd"

func main() {
	cmd.Execute()
}
