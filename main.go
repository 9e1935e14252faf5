package main

import "github.com/huanfeng/wearhub-cli/cmd"

func main() {
	cmd.Execute()
}
