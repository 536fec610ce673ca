package main

import (
	"os"

	"github.com/zhongchar/zhongchar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
