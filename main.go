package main

import "github.com/KaramelBytes/journal-metrics/cmd"

func main() {
	cmd.Execute()
}
