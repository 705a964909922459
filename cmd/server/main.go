package main

import (
	"github.com/nguyentranbao-ct/voice-bot/cmd"
)

func main() {
	cmd.Execute()
}
