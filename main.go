package main

import "github.com/iksnae/sitechat/cmd"

func main() {
	cmd.Execute()
}
