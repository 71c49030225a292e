package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username, display name and password and
// creates a new account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	displayName, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.api.Register(ctx, userName, string(password), displayName); err != nil {
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and authenticates against the
// server. On success the API client keeps the bearer token for later calls.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.api.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}

	a.userName = user.Username
	fmt.Printf("Welcome, %s!\n", user.DisplayName)
	return nil
}

// Logout drops the token and any walk in progress.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""

	a.mu.Lock()
	a.walk = nil
	a.fix = nil
	a.mu.Unlock()

	fmt.Println("Logged out")
	return nil
}
