package main

import "perftrack/internal/app/server"

func main() {
	server.Run()
}
