package main

import "github.com/maxvaer/livecheck/cmd"

func main() {
	cmd.Execute()
}
