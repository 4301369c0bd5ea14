package main

import (
	"os"
)

func main() {
	code, err := Execute()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(code)
}
