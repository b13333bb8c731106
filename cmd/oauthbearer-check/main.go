// oauthbearer-check evaluates a captured OAUTHBEARER initial response
// against a configured token verifier, printing what a server would do
// with it. Useful for debugging clients that cannot get past
// authentication.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"io"
	"log"
	"os"

	"github.com/saslx/go-oauthbearer"
)

var (
	configPath string
	inBase64   bool
)

func main() {
	flag.StringVar(&configPath, "config", "oauthbearer-check.toml", "verifier configuration file")
	flag.BoolVar(&inBase64, "base64", false, "the initial response is base64-encoded")
	flag.Parse()

	var raw []byte
	var err error
	if flag.NArg() > 0 {
		raw = []byte(flag.Arg(0))
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read initial response from stdin: %v", err)
		}
	}
	if inBase64 {
		raw, err = base64.StdEncoding.DecodeString(string(raw))
		if err != nil {
			log.Fatalf("Failed to decode base64 initial response: %v", err)
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	v, discoveryURL, err := cfg.buildVerifier(ctx)
	if err != nil {
		log.Fatalf("Failed to build verifier: %v", err)
	}

	msg, err := oauthbearer.ParseInitialClientMessage(raw)
	if err != nil {
		log.Fatalf("Parse failed: %v", err)
	}
	if authzID, ok := msg.AuthorizationIdentity(); ok {
		prepared, err := oauthbearer.PrepareAuthorizationIdentity(authzID)
		if err != nil {
			log.Printf("Authorization identity %q does not survive preparation: %v", authzID, err)
		} else {
			log.Printf("Authorization identity: %q (prepared: %q)", authzID, prepared)
		}
	}

	serverConfig := oauthbearer.Config{}
	if discoveryURL != "" {
		serverConfig[oauthbearer.ConfigOpenIDConfigurationURL] = discoveryURL
	}
	srv := oauthbearer.NewServer(oauthbearer.MechanismName, v, serverConfig)

	payload, err := srv.EvaluateInitialResponse(ctx, msg)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	if len(payload) == 0 {
		log.Printf("Token accepted: the server would complete the exchange")
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		log.Fatalf("Server produced an undecodable error message: %v", err)
	}
	log.Printf("Token rejected: the server would answer with %s", decoded)
	os.Exit(1)
}
