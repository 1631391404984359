package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
)

// Prints a bcrypt hash suitable for AUTH_ADMIN_PASSWORD_HASH. The password
// is read from stdin so it stays out of shell history. The cost defaults to
// AUTH_BCRYPT_COST.
func main() {
	cost := flag.Int("cost", auth.BcryptCost(config.LoadAuth().BcryptCost), "bcrypt cost")
	flag.Parse()

	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		fmt.Fprintln(os.Stderr, "password must not be empty")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
