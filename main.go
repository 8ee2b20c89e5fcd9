package main

import "github.com/itcentralng/dhf-hrapp-backend/cmd"

func main() {
	cmd.Execute()
}
