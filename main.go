package main

import "locator-backend/cmd"

func main() {
	cmd.Run()
}
