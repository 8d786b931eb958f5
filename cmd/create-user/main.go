// CLI tool to create a user with a bcrypt-hashed password and a fresh auth token.
// The athlete profile (and its calorie/macro targets) is submitted later through
// POST /api/profile.
// Usage: go run ./cmd/create-user (from the repository root)
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// minPasswordLen is the shortest password accepted at the prompt.
const minPasswordLen = 8

// newUser is what the prompts collect.
type newUser struct {
	Username string
	Email    string
	Password string
}

// validateUserInput trims the fields and checks them the way POST /api/register does,
// plus a minimum password length.
func validateUserInput(in newUser) (newUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Username == "" || in.Email == "" || in.Password == "":
		return newUser{}, errors.New("username, email and password are required")
	case strings.ContainsAny(in.Username, " \t"):
		return newUser{}, errors.New("username must not contain spaces")
	case strings.Count(in.Email, "@") != 1 || strings.HasPrefix(in.Email, "@") || strings.HasSuffix(in.Email, "@"):
		return newUser{}, errors.New("invalid email")
	case len(in.Password) < minPasswordLen:
		return newUser{}, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return in, nil
}

// prompt prints label and returns the line typed by the user without its newline.
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// insertUser stores u and returns its id and auth token.
func insertUser(ctx context.Context, conn *pgx.Conn, u newUser) (int, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", fmt.Errorf("hash password: %w", err)
	}
	token := uuid.New().String()

	var id int
	err = conn.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, string(hash), token,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("insert user: %w", err)
	}
	return id, token, nil
}

func main() {
	if err := godotenv.Load(); err != nil && os.Getenv("DB_URL") == "" {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	u, err := validateUserInput(newUser{
		Username: prompt(reader, "Username: "),
		Email:    prompt(reader, "Email: "),
		Password: prompt(reader, "Password: "),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	id, token, err := insertUser(ctx, conn, u)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", id)
	fmt.Printf("  Username:   %s\n", u.Username)
	fmt.Printf("  Auth Token: %s\n", token)
	fmt.Println("  Next step:  submit a profile via POST /api/profile")
}
