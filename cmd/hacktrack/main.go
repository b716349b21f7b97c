// hacktrack takes one-off commit history snapshots of GitHub repositories
// without a database. The long-running service lives in cmd/server.
//
// Usage:
//
//	hacktrack analyze https://github.com/acme/widgets
//	hacktrack analyze acme/widgets --known 1f3c...,9ab0... --json
//	hacktrack overview alpha=https://github.com/acme/widgets --track AI
//	hacktrack ratelimit
package main

// Version can be overridden at build time with -ldflags="-X main.Version=v1.0.0".
var Version = "dev"

func main() {
	Execute()
}
