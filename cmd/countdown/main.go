package main

import "github.com/shoaibubaid/COUNTDOWN/cmd/countdown/cmd"

func main() {
	cmd.Execute()
}
