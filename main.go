package main

import "pmteambuilder/cmd"

func main() {
	cmd.Execute()
}
