// authctl drives the authentication flows from the command line against a
// running authority. It keeps the session credential in the user's config
// directory so consecutive invocations share one session, which makes it
// useful both for smoke-testing a deployment and as a reference consumer of
// the session operations.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskgate/internal/authority"
	"taskgate/internal/platform/logger"
	"taskgate/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("AUTHORITY_URL")
	if baseURL == "" {
		fmt.Fprintln(os.Stderr, "AUTHORITY_URL is required")
		os.Exit(2)
	}

	log := logger.New()
	client := authority.New(baseURL, authority.WithLogger(log))
	store := session.NewStore(client)
	ops := session.NewOperations(store, client, printNavigator{}, log)

	credentialPath, err := credentialFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if saved, err := os.ReadFile(credentialPath); err == nil {
		store.SetCredential(strings.TrimSpace(string(saved)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], store, ops); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := saveCredential(credentialPath, store.Credential()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, store *session.Store, ops *session.Operations) error {
	switch command {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: authctl login <email> <password>")
		}
		if err := ops.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		printUser(store.Read().User)
		return nil

	case "register":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: authctl register <email> <password> [full name]")
		}
		fullName := ""
		if len(args) == 3 {
			fullName = args[2]
		}
		if err := ops.Register(ctx, args[0], args[1], fullName); err != nil {
			return err
		}
		printUser(store.Read().User)
		return nil

	case "logout":
		ops.Logout(ctx)
		return nil

	case "whoami":
		store.Refresh(ctx)
		user := store.Read().User
		if user == nil {
			return fmt.Errorf("not signed in")
		}
		printUser(user)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// printNavigator stands in for the client's router: the CLI just reports
// where a browser would have gone.
type printNavigator struct{}

func (printNavigator) Navigate(path string) {
	fmt.Println("->", path)
}

func printUser(user *authority.User) {
	if user == nil {
		return
	}
	fmt.Printf("signed in as %s (id %d", user.Email, user.ID)
	if user.FullName != "" {
		fmt.Printf(", %s", user.FullName)
	}
	fmt.Println(")")
}

func credentialFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "taskgate", "credential"), nil
}

func saveCredential(path, credential string) error {
	if credential == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove credential: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(credential), 0o600); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: authctl <command>

commands:
  login <email> <password>           sign in and store the session credential
  register <email> <password> [name] create an account and sign in
  logout                             invalidate the session and clear the credential
  whoami                             show the current session's user`)
}
