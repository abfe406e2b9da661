package main

import "ebay-research/cmd"

func main() {
	cmd.Execute()
}
