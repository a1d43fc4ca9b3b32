package main

import "github.com/guptarajStha/restaurant-web/cmd"

func main() {
	cmd.Execute()
}
