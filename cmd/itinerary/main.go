package main

import "itinerary/internal/cli"

func main() {
	cli.Execute()
}
