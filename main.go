package main

import "github.com/whmcsguru/ExceptionParser/internal/cmd"

func main() {
	cmd.Execute()
}
