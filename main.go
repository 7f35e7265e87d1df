package main

import "github.com/mahardika/storefront/cmd"

func main() {
	cmd.Start()
}
