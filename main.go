package main

import "github.com/raccordement/raccordement-service/cmd"

func main() {
	cmd.Execute()
}
