package main

import (
	"socially/internal/cmd"
)

func main() {
	cmd.Run()
}
