package main

import "ffmpegfor/cmd"

func main() {
	cmd.Execute()
}
