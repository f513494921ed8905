// Command demo walks a terminal user through a redirect-style login against
// a real identity provider, using the session manager with in-memory
// storage. Paste the code and state from the redirect URI to complete the
// exchange.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname("auth client")
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := auth.Config{
		AuthDomain:  envOr("AUTH_DOMAIN", "https://auth.example.com"),
		ClientID:    envOr("AUTH_CLIENT_ID", "demo-client"),
		RedirectURI: envOr("AUTH_REDIRECT_URI", "http://localhost:3000/callback"),
		Scope:       "openid profile email offline_access",
	}

	sessions := store.NewInMemorySessionRepo()
	client, err := oidcclient.NewWithEndpoints(
		cfg.ClientID,
		cfg.RedirectURI,
		cfg.AuthDomain+"/authorize",
		cfg.AuthDomain+"/oauth/token",
		strings.Fields(cfg.Scope),
		sessions,
		nil,
		oidcclient.WithLogger(log),
	)
	if err != nil {
		return err
	}

	manager, err := auth.New(cfg, auth.Collaborators{
		Client:   client,
		Sessions: sessions,
		Flows:    store.NewInMemoryFlowStateRepo(),
	}, auth.WithLogger(log))
	if err != nil {
		return err
	}

	manager.LoggedOut.Subscribe(func(struct{}) {
		log.Info().Msg("logged out")
	})

	ctx := context.Background()

	loginURL, err := manager.LoginURL(ctx, nil, "")
	if err != nil {
		return err
	}
	fmt.Printf("Open this URL in a browser and authenticate:\n\n  %s\n\n", loginURL)

	code, state, err := readCallback(os.Stdin)
	if err != nil {
		return err
	}

	sess, err := manager.HandleLoginCallback(ctx, code, state)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.Profile.Nickname, sess.Profile.Email)

	fmt.Printf("Logout URL: %s\n", manager.LogoutURL(""))
	return manager.Logout(ctx, auth.LogoutOptions{})
}

func readCallback(in *os.File) (code, state string, err error) {
	fmt.Print("Paste the returned code and state (space separated): ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return "", "", errors.New("no callback input")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 2 {
		return "", "", errors.New("expected: <code> <state>")
	}
	return fields[0], fields[1], nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
