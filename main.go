package main

import "scpane/internal/app"

func main() {
	app.Run()
}
