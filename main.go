package main

import "github.com/theirongolddev/pricecraft/cmd"

func main() {
	cmd.Execute()
}
