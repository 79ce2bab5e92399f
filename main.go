package main

import "github.com/harvestlink/farmgate/internal/app"

func main() {
	app.Execute()
}
