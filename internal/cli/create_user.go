package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/dkarpov/authgate/internal/auth"
	"github.com/dkarpov/authgate/internal/config"
	"github.com/dkarpov/authgate/internal/database"
	"github.com/dkarpov/authgate/internal/database/users"
)

// CreateUserCommand registers an account from the terminal, for
// bootstrapping the first user without an open registration endpoint.
type CreateUserCommand struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	DatabasePath string
	BcryptCost   int
}

// NewCreateUserCommand creates a new CreateUserCommand.
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Email address for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required)")
	fs.StringVar(&cmd.FirstName, "first-name", "", "Optional first name")
	fs.StringVar(&cmd.LastName, "last-name", "", "Optional last name")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.BcryptCost, "bcrypt-cost", 12, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -email admin@example.com -password s3cret\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return fmt.Errorf("password is required")
	}

	return nil
}

// Run executes the create-user command.
func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(cmd.Password, cmd.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	repo := users.NewRepository(db.DB)
	user, err := repo.Create(cmd.Email, hash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if cmd.FirstName != "" || cmd.LastName != "" {
		user.FirstName = cmd.FirstName
		user.LastName = cmd.LastName
		if err := db.DB.Save(user).Error; err != nil {
			return fmt.Errorf("failed to save user names: %w", err)
		}
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
	return nil
}
