package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"
	"finance-manager/internal/storage"
	"finance-manager/internal/users"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

const defaultDBPath = "user.db"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address")
	nameFlag := fs.String("name", "", "Display name (optional, will prompt if omitted)")
	dbPath := fs.String("db", defaultDBPath, "Path to the user service database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> [-name <name>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	name := *nameFlag
	if name == "" {
		var err error
		name, err = readLine(stdin, stdout, "Name: ")
		if err != nil {
			return fmt.Errorf("failed to read name: %w", err)
		}
	}

	req := models.CreateUserRequest{Name: strings.TrimSpace(name), Email: strings.TrimSpace(*email)}
	if req.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if err := validator.New().Var(req.Email, "email"); err != nil {
		return fmt.Errorf("invalid email %q", req.Email)
	}

	// Allow overriding db path via env var if not explicitly set via flag
	if path := os.Getenv("DB_PATH"); path != "" && *dbPath == defaultDBPath {
		*dbPath = path
	}

	db, err := storage.NewDB(*dbPath, storage.TableUsers)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	svc, err := users.NewService(db, 1)
	if err != nil {
		return err
	}

	user, err := svc.Create(context.Background(), req)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindExists {
			return fmt.Errorf("user %s already exists", req.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Email, user.ID)

	count, err := db.UserCount(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	fmt.Fprintf(stdout, "Total users: %d\n", count)
	return nil
}

// readLine prompts for one line of input. On a terminal the line is read
// with line editing.
func readLine(stdin io.Reader, stdout io.Writer, prompt string) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return "", err
		}
		defer term.Restore(int(f.Fd()), state)

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{f, stdout}, prompt)
		return t.ReadLine()
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	fmt.Fprint(stdout, prompt)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
