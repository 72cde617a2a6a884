// students manages student records in a relational database.
//
// Each subcommand runs exactly one operation against the database and
// prints the outcome:
//
//	students create "Ana Silva" 11122233344 21
//	students get 1
//	students list
//	students update 1 "Ana Souza" 11122233344 22
//	students delete 1
//	students serve
//
// Connection settings come from the environment (DB_HOST, DB_USER,
// DB_PASSWORD, DB_NAME, DB_PORT, SSL_CA_PATH), optionally from a .cred file
// in the working directory, and optionally from a YAML file passed with
// --config or CONFIG_PATH.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
