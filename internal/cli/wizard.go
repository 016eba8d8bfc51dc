package cli

import (
	"fmt"
	"strings"
)

// setupWizard walks a new operator through registering the first user. It
// loops on each field until the store-side validation rules are satisfied,
// so Register below can only fail on a duplicate race or a persist error.
func (a *App) setupWizard() error {
	fmt.Fprintln(a.out, "Setup Wizard")
	fmt.Fprintln(a.out, "------------")

	var username string
	for {
		v, err := getSimpleText(a.in, "Enter username (min 3 characters)", a.out)
		if err != nil {
			return err
		}
		if len(v) >= 3 {
			username = v
			break
		}
		fmt.Fprintln(a.out, "Username must be at least 3 characters.")
	}

	var password string
	for {
		p1, err := getPassword("Enter password (min 8 characters)", a.out)
		if err != nil {
			return err
		}
		if len(p1) < 8 {
			fmt.Fprintln(a.out, "Password must be at least 8 characters.")
			continue
		}
		p2, err := getPassword("Confirm password", a.out)
		if err != nil {
			return err
		}
		if p1 != p2 {
			fmt.Fprintln(a.out, "Passwords do not match.")
			continue
		}
		password = p1
		break
	}

	var email string
	for {
		v, err := getSimpleText(a.in, "Enter email address", a.out)
		if err != nil {
			return err
		}
		if strings.Contains(v, "@") {
			email = v
			break
		}
		fmt.Fprintln(a.out, "Please enter a valid email address.")
	}

	answer, err := getSimpleText(a.in, "Generate random access token? (Y/n)", a.out)
	if err != nil {
		return err
	}

	var token string
	if yes(answer) {
		token, err = a.store.SuggestToken()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Generated token: %s\n", token)
	} else {
		for {
			v, err := getSimpleText(a.in, "Enter access token (min 8 characters)", a.out)
			if err != nil {
				return err
			}
			if len(v) >= 8 {
				token = v
				break
			}
			fmt.Fprintln(a.out, "Access token must be at least 8 characters.")
		}
	}

	if err := a.store.Register(username, password, email, token); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "User registered successfully!")
	fmt.Fprintf(a.out, "Your access token: %s\n", token)
	fmt.Fprintln(a.out, "Save this token - you'll need it to access the web interface.")

	return nil
}
