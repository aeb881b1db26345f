// Package main generates a development Certificate Authority and a server
// certificate for running the GophLogin server over HTTPS.
//
// Usage:
//
//	go run ./tools/certgen -dir certs -hosts localhost,127.0.0.1
//	go run ./cmd/server -tls-cert certs/server.crt -tls-key certs/server.key
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/atinyakov/GophLogin/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts)); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificates generated into ./%s\n", *dir)
}

// run writes ca.{crt,key} and server.{crt,key} into dir.
func run(dir string, hosts []string) error {
	ca, caKey, err := certgen.GenerateCA("GophLogin Dev CA")
	if err != nil {
		return err
	}
	caCertPEM, caKeyPEM, err := certgen.EncodeCA(ca, caKey)
	if err != nil {
		return err
	}
	if err := certgen.WritePair(dir, "ca", caCertPEM, caKeyPEM); err != nil {
		return err
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, ca, caKey)
	if err != nil {
		return err
	}
	return certgen.WritePair(dir, "server", certPEM, keyPEM)
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
