// Package shell is a terminal front end for the login and welcome pages.
// It drives the same ui controllers as the web server, rendering to text.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/atinyakov/GophLogin/internal/storage"
	"github.com/atinyakov/GophLogin/internal/ui"
	"github.com/atinyakov/GophLogin/internal/validator"
)

// Shell runs the interactive loop.
type Shell struct {
	Auth     ui.Auth
	Storage  *storage.Storage
	Location *time.Location
	In       *bufio.Reader
	Out      io.Writer
}

// page is the screen currently shown.
type page string

const (
	pageLogin   page = ui.LoginPath
	pageWelcome page = ui.WelcomePath
)

// Run shows the login or welcome screen according to the stored state and
// processes commands until "exit" or end of input.
func (s *Shell) Run(ctx context.Context) error {
	current := s.load(ctx, pageLogin)

	for {
		fmt.Fprint(s.Out, "authdemo> ")
		line, err := s.In.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Fprintln(s.Out, "Available commands: help, login, whoami, logout, clear, exit")
		case "login":
			if current == pageWelcome {
				fmt.Fprintln(s.Out, "Already logged in. Use logout first.")
				continue
			}
			next, err := s.login(ctx)
			if err != nil {
				return err
			}
			current = s.load(ctx, next)
		case "whoami":
			current = s.load(ctx, pageWelcome)
		case "logout":
			c := &ui.WelcomeController{Auth: s.Auth, Location: s.Location}
			current = s.load(ctx, page(c.Logout(ctx)))
		case "clear":
			if s.Storage.Clear(ctx) {
				fmt.Fprintln(s.Out, "Local data cleared")
			} else {
				fmt.Fprintln(s.Out, "Failed to clear local data")
			}
			current = s.load(ctx, pageLogin)
		case "exit":
			fmt.Fprintln(s.Out, "Bye")
			return nil
		default:
			fmt.Fprintln(s.Out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// load navigates to p, following controller redirects, and renders it.
func (s *Shell) load(ctx context.Context, p page) page {
	for i := 0; i < 2; i++ {
		switch p {
		case pageWelcome:
			c := &ui.WelcomeController{Auth: s.Auth, Location: s.Location}
			out := c.Load(ctx)
			if out.Redirect != "" {
				p = page(out.Redirect)
				continue
			}
			fmt.Fprintf(s.Out, "Welcome, %s\nEmail: %s\nLogin time: %s\n",
				out.View.Username, out.View.Email, out.View.LoginTime)
			return pageWelcome
		default:
			c := &ui.LoginController{Auth: s.Auth}
			if to := c.Load(ctx); to != "" {
				p = page(to)
				continue
			}
			fmt.Fprintln(s.Out, "Not logged in. Type 'login' to sign in.")
			return pageLogin
		}
	}
	return p
}

// login prompts for credentials and submits them.
func (s *Shell) login(ctx context.Context) (page, error) {
	email, err := promptLine(s.In, s.Out, "Email: ")
	if err != nil {
		return pageLogin, err
	}
	password, err := promptPassword(s.In, s.Out)
	if err != nil {
		return pageLogin, err
	}

	c := &ui.LoginController{Auth: s.Auth}
	out := c.Submit(ctx, validator.LoginForm{Email: email, Password: password})
	if out.Redirect != "" {
		return page(out.Redirect), nil
	}

	fields := make([]string, 0, len(out.Errors))
	for f := range out.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(s.Out, "%s: %s\n", f, out.Errors[f])
	}
	return pageLogin, nil
}
