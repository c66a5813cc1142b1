package main

import "bestronggym/gym-desk/cmd/gymctl/cmd"

func main() {
	cmd.Execute()
}
