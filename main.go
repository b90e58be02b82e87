package main

import "github.com/NobleNomadic/HomeServer/cmd"

func main() {
	cmd.Execute()
}
